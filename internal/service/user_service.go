package service

import (
	"context"

	"github.com/beckernir/AUCA-HR/internal/model"
	"github.com/beckernir/AUCA-HR/internal/repository"
	"github.com/beckernir/AUCA-HR/pkg/apperror"
	"github.com/beckernir/AUCA-HR/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages employee records. The profile and the credential live
// on the same row but only auth code ever reads the password hash.
type UserService struct {
	users repository.UserRepository
}

// NewUserService creates the user directory service
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Create registers a new employee. Email, national id and phone number must
// each be globally unique.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (UserDTO, error) {
	log := logger.FromContext(ctx)

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return UserDTO{}, apperror.New(apperror.CodeConflict, "email already registered")
	} else if !isNotFound(err) {
		return UserDTO{}, err
	}
	if _, err := s.users.FindByNationalID(ctx, input.NationalID); err == nil {
		return UserDTO{}, apperror.New(apperror.CodeConflict, "national id already registered")
	} else if !isNotFound(err) {
		return UserDTO{}, err
	}
	if _, err := s.users.FindByPhoneNumber(ctx, input.PhoneNumber); err == nil {
		return UserDTO{}, apperror.New(apperror.CodeConflict, "phone number already registered")
	} else if !isNotFound(err) {
		return UserDTO{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserDTO{}, err
	}

	user := model.User{
		FullNames:       input.FullNames,
		Email:           input.Email,
		NationalID:      input.NationalID,
		PhoneNumber:     input.PhoneNumber,
		DateOfBirth:     input.DateOfBirth,
		Gender:          input.Gender,
		Nationality:     input.Nationality,
		Role:            input.Role,
		WorkingPosition: input.WorkingPosition,
		ContractType:    input.ContractType,
		Salary:          input.Salary,
		TotalAllowances: input.TotalAllowances,
		BankAccount:     input.BankAccount,
		AccountNumber:   input.AccountNumber,
		Password:        string(hashed),
		Active:          true,
		Education:       input.Education,
		WorkExperience:  input.WorkExperience,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return UserDTO{}, err
	}

	log.Info("User registered",
		zap.Uint("user_id", user.ID),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)))

	return userToDTO(&user), nil
}

// Get returns one employee record with owned education/work history
func (s *UserService) Get(ctx context.Context, id uint) (UserDTO, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return UserDTO{}, apperror.New(apperror.CodeNotFound, "user not found")
		}
		return UserDTO{}, err
	}
	return userToDTO(user), nil
}

// List returns all employee records
func (s *UserService) List(ctx context.Context) ([]UserDTO, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return usersToDTOs(users), nil
}

// Update applies a partial profile update
func (s *UserService) Update(ctx context.Context, id uint, input UpdateUserInput) (UserDTO, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return UserDTO{}, apperror.New(apperror.CodeNotFound, "user not found")
		}
		return UserDTO{}, err
	}

	if input.FullNames != nil {
		user.FullNames = *input.FullNames
	}
	if input.PhoneNumber != nil && *input.PhoneNumber != user.PhoneNumber {
		if _, err := s.users.FindByPhoneNumber(ctx, *input.PhoneNumber); err == nil {
			return UserDTO{}, apperror.New(apperror.CodeConflict, "phone number already registered")
		} else if !isNotFound(err) {
			return UserDTO{}, err
		}
		user.PhoneNumber = *input.PhoneNumber
	}
	if input.WorkingPosition != nil {
		user.WorkingPosition = *input.WorkingPosition
	}
	if input.ContractType != nil {
		user.ContractType = *input.ContractType
	}
	if input.Salary != nil {
		user.Salary = *input.Salary
	}
	if input.TotalAllowances != nil {
		user.TotalAllowances = *input.TotalAllowances
	}
	if input.BankAccount != nil {
		user.BankAccount = *input.BankAccount
	}
	if input.AccountNumber != nil {
		user.AccountNumber = *input.AccountNumber
	}
	if input.Active != nil {
		user.Active = *input.Active
	}

	if err := s.users.Save(ctx, user); err != nil {
		return UserDTO{}, err
	}

	return userToDTO(user), nil
}

// ChangePassword verifies the old password before setting the new one
func (s *UserService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	log := logger.FromContext(ctx)

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return apperror.New(apperror.CodeNotFound, "user not found")
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return apperror.New(apperror.CodeAuthentication, "current password is incorrect")
	}

	if len(newPassword) < 8 {
		return apperror.New(apperror.CodeValidation, "password must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.Password = string(hashed)
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	log.Info("Password changed", zap.Uint("user_id", userID))
	return nil
}

// Deactivate clears the active flag; the record and its owned education and
// work history stay behind for payroll history.
func (s *UserService) Deactivate(ctx context.Context, id uint) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return apperror.New(apperror.CodeNotFound, "user not found")
		}
		return err
	}

	user.Active = false
	return s.users.Save(ctx, user)
}

func userToDTO(user *model.User) UserDTO {
	return UserDTO{
		ID:              user.ID,
		FullNames:       user.FullNames,
		Email:           user.Email,
		NationalID:      user.NationalID,
		PhoneNumber:     user.PhoneNumber,
		Role:            user.Role,
		WorkingPosition: user.WorkingPosition,
		ContractType:    user.ContractType,
		Salary:          user.Salary,
		TotalAllowances: user.TotalAllowances,
		Active:          user.Active,
		Education:       user.Education,
		WorkExperience:  user.WorkExperience,
		CreatedAt:       user.CreatedAt,
	}
}

func usersToDTOs(users []model.User) []UserDTO {
	dtos := make([]UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, userToDTO(&users[i]))
	}
	return dtos
}
