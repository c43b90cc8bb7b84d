package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ieee-synapse/synapse-api/internal/api/handler/v1/response"
	"github.com/ieee-synapse/synapse-api/internal/domain"
)

// accountProfile is an account without its bookkeeping fields.
type accountProfile struct {
	Email               string        `json:"email"`
	Name                string        `json:"name"`
	Team                string        `json:"team,omitempty"`
	Role                string        `json:"role,omitempty"`
	PhoneNumber         string        `json:"phone_number,omitempty"`
	CollegeOrUniversity string        `json:"college_or_university,omitempty"`
	Course              string        `json:"course,omitempty"`
	Year                int           `json:"year,omitempty"`
	Gender              domain.Gender `json:"gender,omitempty"`
	GithubProfile       string        `json:"github_profile,omitempty"`
	LinkedinProfile     string        `json:"linkedin_profile,omitempty"`
}

func newAccountProfile(a domain.Account) accountProfile {
	return accountProfile{
		Email:               a.Email,
		Name:                a.Name,
		Team:                a.Team,
		Role:                a.Role,
		PhoneNumber:         a.PhoneNumber,
		CollegeOrUniversity: a.CollegeOrUniversity,
		Course:              a.Course,
		Year:                a.Year,
		Gender:              a.Gender,
		GithubProfile:       a.GithubProfile,
		LinkedinProfile:     a.LinkedinProfile,
	}
}

type AdminHandler struct{}

func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

// HandleGetAdminProfile godoc
// @Summary      Get the caller's admin profile
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.Data[accountProfile]
// @Failure      403  {object}  response.Err
// @Router       /admin/profile [get]
// @Security     BearerAuth
func (h *AdminHandler) HandleGetAdminProfile(ctx *gin.Context) {
	admin, ok := principalAs[domain.AdminPrincipal](ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, response.OK(newAccountProfile(admin.Account)))
}

// HandleGetSuperadminProfile godoc
// @Summary      Get the caller's superadmin profile
// @Tags         admin
// @Produce      json
// @Success      200  {object}  response.Data[accountProfile]
// @Failure      403  {object}  response.Err
// @Router       /admin/super/profile [get]
// @Security     BearerAuth
func (h *AdminHandler) HandleGetSuperadminProfile(ctx *gin.Context) {
	super, ok := principalAs[domain.SuperadminPrincipal](ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, response.OK(newAccountProfile(super.Account)))
}
