package response

type Message struct {
	Message string `json:"message"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Data[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

func OK[T any](data T) Data[T] {
	return Data[T]{Success: true, Data: data}
}

// YearData is a single-session payload.
type YearData[T any] struct {
	Success bool   `json:"success"`
	Year    string `json:"year"`
	Data    T      `json:"data"`
}

// YearPage is a counted single-session list.
type YearPage[T any] struct {
	Success bool   `json:"success"`
	Year    string `json:"year"`
	Count   int    `json:"count"`
	Data    []T    `json:"data"`
}
