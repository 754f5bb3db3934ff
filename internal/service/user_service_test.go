package service

import (
	"context"
	"testing"

	"github.com/beckernir/AUCA-HR/internal/model"
	"github.com/beckernir/AUCA-HR/pkg/apperror"
	"golang.org/x/crypto/bcrypt"
)

func newUserFixture(t *testing.T) (*UserService, *stubUserRepo) {
	t.Helper()
	users := newStubUserRepo()
	return NewUserService(users), users
}

func sampleCreateInput() CreateUserInput {
	return CreateUserInput{
		FullNames:       "Jane Lecturer",
		Email:           "jane@auca.ac.rw",
		NationalID:      "1199880012345678",
		PhoneNumber:     "+250788123456",
		Role:            model.RoleLecturer,
		WorkingPosition: "Senior Lecturer",
		ContractType:    model.ContractPermanent,
		Salary:          850000,
		Password:        "initial-password",
		Education: []model.Education{
			{Institution: "UR", Degree: "MSc", FieldOfStudy: "Computer Science", StartYear: 2015, EndYear: 2017},
		},
	}
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc, users := newUserFixture(t)

	created, err := svc.Create(context.Background(), sampleCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected an assigned id")
	}
	if !created.Active {
		t.Fatal("new users start active")
	}

	stored, err := users.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.Password == "initial-password" {
		t.Fatal("password must not be stored in clear text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("initial-password")); err != nil {
		t.Fatalf("stored hash does not match the password: %v", err)
	}
	if len(stored.Education) != 1 {
		t.Fatalf("expected education to be kept, got %d entries", len(stored.Education))
	}
}

func TestCreateUserUniqueness(t *testing.T) {
	svc, _ := newUserFixture(t)

	if _, err := svc.Create(context.Background(), sampleCreateInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dupEmail := sampleCreateInput()
	dupEmail.NationalID = "other-id"
	dupEmail.PhoneNumber = "+250788000000"
	if _, err := svc.Create(context.Background(), dupEmail); apperror.GetCode(err) != apperror.CodeConflict {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}

	dupNationalID := sampleCreateInput()
	dupNationalID.Email = "other@auca.ac.rw"
	dupNationalID.PhoneNumber = "+250788000000"
	if _, err := svc.Create(context.Background(), dupNationalID); apperror.GetCode(err) != apperror.CodeConflict {
		t.Fatalf("expected conflict for duplicate national id, got %v", err)
	}

	dupPhone := sampleCreateInput()
	dupPhone.Email = "other@auca.ac.rw"
	dupPhone.NationalID = "other-id"
	if _, err := svc.Create(context.Background(), dupPhone); apperror.GetCode(err) != apperror.CodeConflict {
		t.Fatalf("expected conflict for duplicate phone, got %v", err)
	}
}

func TestUpdateUserPartial(t *testing.T) {
	svc, _ := newUserFixture(t)

	created, err := svc.Create(context.Background(), sampleCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	position := "Head of Department"
	updated, err := svc.Update(context.Background(), created.ID, UpdateUserInput{WorkingPosition: &position})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.WorkingPosition != position {
		t.Fatalf("expected updated position, got %q", updated.WorkingPosition)
	}
	// Untouched fields keep their values
	if updated.FullNames != created.FullNames || updated.Salary != created.Salary {
		t.Fatal("unrelated fields changed during partial update")
	}
}

func TestChangePassword(t *testing.T) {
	svc, users := newUserFixture(t)

	created, err := svc.Create(context.Background(), sampleCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.ChangePassword(context.Background(), created.ID, "wrong", "brand-new-password"); apperror.GetCode(err) != apperror.CodeAuthentication {
		t.Fatalf("expected authentication error for wrong old password, got %v", err)
	}

	if err := svc.ChangePassword(context.Background(), created.ID, "initial-password", "short"); apperror.GetCode(err) != apperror.CodeValidation {
		t.Fatalf("expected validation error for short password, got %v", err)
	}

	if err := svc.ChangePassword(context.Background(), created.ID, "initial-password", "brand-new-password"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := users.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("brand-new-password")); err != nil {
		t.Fatal("expected the new password to be in effect")
	}
}

func TestDeactivateKeepsRecord(t *testing.T) {
	svc, users := newUserFixture(t)

	created, err := svc.Create(context.Background(), sampleCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Deactivate(context.Background(), created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored, err := users.FindByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("expected the record to remain: %v", err)
	}
	if stored.Active {
		t.Fatal("expected the user to be inactive")
	}

	if err := svc.Deactivate(context.Background(), 999); apperror.GetCode(err) != apperror.CodeNotFound {
		t.Fatalf("expected not found for unknown user, got %v", err)
	}
}
