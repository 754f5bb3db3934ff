package handler

import (
	"net/http"
	"time"

	"github.com/beckernir/AUCA-HR/internal/middleware"
	"github.com/beckernir/AUCA-HR/internal/model"
	"github.com/beckernir/AUCA-HR/internal/service"
	"github.com/beckernir/AUCA-HR/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// UserHandler exposes the employee directory
type UserHandler struct {
	users service.UserManager
}

// NewUserHandler creates the user handler
func NewUserHandler(users service.UserManager) *UserHandler {
	return &UserHandler{users: users}
}

type educationRequest struct {
	Institution  string `json:"institution" validate:"required"`
	Degree       string `json:"degree" validate:"required"`
	FieldOfStudy string `json:"field_of_study"`
	StartYear    int    `json:"start_year"`
	EndYear      int    `json:"end_year"`
}

type workExperienceRequest struct {
	Company     string `json:"company" validate:"required"`
	Position    string `json:"position" validate:"required"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Description string `json:"description"`
}

type createUserRequest struct {
	FullNames       string                  `json:"full_names" validate:"required"`
	Email           string                  `json:"email" validate:"required,email"`
	NationalID      string                  `json:"national_id" validate:"required"`
	PhoneNumber     string                  `json:"phone_number" validate:"required"`
	DateOfBirth     string                  `json:"date_of_birth"`
	Gender          model.Gender            `json:"gender" validate:"omitempty,oneof=MALE FEMALE"`
	Nationality     string                  `json:"nationality"`
	Role            model.UserRole          `json:"role" validate:"required,oneof=HR LECTURER STAFF ADMIN"`
	WorkingPosition string                  `json:"working_position"`
	ContractType    model.ContractType      `json:"contract_type" validate:"omitempty,oneof=PERMANENT CONTRACT PART_TIME"`
	Salary          float64                 `json:"salary" validate:"gte=0"`
	TotalAllowances float64                 `json:"total_allowances" validate:"gte=0"`
	BankAccount     string                  `json:"bank_account"`
	AccountNumber   string                  `json:"account_number"`
	Password        string                  `json:"password" validate:"required,min=8"`
	Education       []educationRequest      `json:"education" validate:"dive"`
	WorkExperience  []workExperienceRequest `json:"work_experience" validate:"dive"`
}

type updateUserRequest struct {
	FullNames       *string             `json:"full_names"`
	PhoneNumber     *string             `json:"phone_number"`
	WorkingPosition *string             `json:"working_position"`
	ContractType    *model.ContractType `json:"contract_type" validate:"omitempty,oneof=PERMANENT CONTRACT PART_TIME"`
	Salary          *float64            `json:"salary" validate:"omitempty,gte=0"`
	TotalAllowances *float64            `json:"total_allowances" validate:"omitempty,gte=0"`
	BankAccount     *string             `json:"bank_account"`
	AccountNumber   *string             `json:"account_number"`
	Active          *bool               `json:"active"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// Create handles POST /api/v1/users
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	input := service.CreateUserInput{
		FullNames:       req.FullNames,
		Email:           req.Email,
		NationalID:      req.NationalID,
		PhoneNumber:     req.PhoneNumber,
		Gender:          req.Gender,
		Nationality:     req.Nationality,
		Role:            req.Role,
		WorkingPosition: req.WorkingPosition,
		ContractType:    req.ContractType,
		Salary:          req.Salary,
		TotalAllowances: req.TotalAllowances,
		BankAccount:     req.BankAccount,
		AccountNumber:   req.AccountNumber,
		Password:        req.Password,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_of_birth must be YYYY-MM-DD"})
		}
		input.DateOfBirth = dob
	}
	for _, e := range req.Education {
		input.Education = append(input.Education, model.Education{
			Institution:  e.Institution,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			StartYear:    e.StartYear,
			EndYear:      e.EndYear,
		})
	}
	for _, w := range req.WorkExperience {
		exp := model.WorkExperience{
			Company:     w.Company,
			Position:    w.Position,
			Description: w.Description,
		}
		if w.StartDate != "" {
			start, err := time.Parse("2006-01-02", w.StartDate)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "work experience dates must be YYYY-MM-DD"})
			}
			exp.StartDate = start
		}
		if w.EndDate != "" {
			end, err := time.Parse("2006-01-02", w.EndDate)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "work experience dates must be YYYY-MM-DD"})
			}
			exp.EndDate = &end
		}
		input.WorkExperience = append(input.WorkExperience, exp)
	}

	user, err := h.users.Create(requestContext(c), input)
	if err != nil {
		return respondError(c, err)
	}

	logger.FromEcho(c).Info("Employee registered", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusCreated, user)
}

// List handles GET /api/v1/users
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(requestContext(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// Get handles GET /api/v1/users/:id
func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.users.Get(requestContext(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// Update handles PATCH /api/v1/users/:id. Non-HR callers may only update
// their own record.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	claims := middleware.CurrentUser(c)
	if claims.Role != string(model.RoleHR) && claims.UserID != id {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "you can only update your own profile"})
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	// Pay and activation changes stay with HR
	if claims.Role != string(model.RoleHR) {
		req.Salary = nil
		req.TotalAllowances = nil
		req.ContractType = nil
		req.Active = nil
	}

	input := service.UpdateUserInput{
		FullNames:       req.FullNames,
		PhoneNumber:     req.PhoneNumber,
		WorkingPosition: req.WorkingPosition,
		ContractType:    req.ContractType,
		Salary:          req.Salary,
		TotalAllowances: req.TotalAllowances,
		BankAccount:     req.BankAccount,
		AccountNumber:   req.AccountNumber,
		Active:          req.Active,
	}

	user, err := h.users.Update(requestContext(c), id, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword handles POST /api/v1/users/change-password for the caller
func (h *UserHandler) ChangePassword(c echo.Context) error {
	claims := middleware.CurrentUser(c)

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "old_password and new_password (min 8 chars) are required"})
	}

	if err := h.users.ChangePassword(requestContext(c), claims.UserID, req.OldPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}

// Deactivate handles DELETE /api/v1/users/:id
func (h *UserHandler) Deactivate(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.users.Deactivate(requestContext(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deactivated"})
}
