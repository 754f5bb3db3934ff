package model

import (
	"time"

	"gorm.io/gorm"
)

// UserRole enumerates the roles a user can hold
type UserRole string

const (
	RoleHR       UserRole = "HR"
	RoleLecturer UserRole = "LECTURER"
	RoleStaff    UserRole = "STAFF"
	RoleAdmin    UserRole = "ADMIN"
)

// Gender enumeration
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// ContractType enumerates employment contract types
type ContractType string

const (
	ContractPermanent ContractType = "PERMANENT"
	ContractFixedTerm ContractType = "CONTRACT"
	ContractPartTime  ContractType = "PART_TIME"
)

// User represents an employee record stored in the database.
// The password hash doubles as the login credential but is never serialized.
type User struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	FullNames       string         `json:"full_names" gorm:"type:varchar(100);not null"`
	Email           string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	NationalID      string         `json:"national_id" gorm:"type:varchar(20);uniqueIndex;not null"`
	PhoneNumber     string         `json:"phone_number" gorm:"type:varchar(20);uniqueIndex;not null"`
	DateOfBirth     time.Time      `json:"date_of_birth"`
	Gender          Gender         `json:"gender" gorm:"type:varchar(10)"`
	Nationality     string         `json:"nationality" gorm:"type:varchar(50)"`
	Role            UserRole       `json:"role" gorm:"type:varchar(20);index;not null"`
	WorkingPosition string         `json:"working_position" gorm:"type:varchar(100)"`
	ContractType    ContractType   `json:"contract_type" gorm:"type:varchar(20)"`
	Salary          float64        `json:"salary"`
	TotalAllowances float64        `json:"total_allowances"`
	BankAccount     string         `json:"bank_account,omitempty" gorm:"type:varchar(100)"`
	AccountNumber   string         `json:"account_number,omitempty" gorm:"type:varchar(20)"`
	Password        string         `json:"-" gorm:"type:varchar(255);not null"`
	Active          bool           `json:"active" gorm:"default:true"`
	Education       []Education    `json:"education,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	WorkExperience  []WorkExperience `json:"work_experience,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

// Education represents a study record owned by a user
type Education struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"index;not null"`
	Institution  string    `json:"institution" gorm:"type:varchar(100)"`
	Degree       string    `json:"degree" gorm:"type:varchar(100)"`
	FieldOfStudy string    `json:"field_of_study" gorm:"type:varchar(100)"`
	StartYear    int       `json:"start_year"`
	EndYear      int       `json:"end_year"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// WorkExperience represents an employment history record owned by a user
type WorkExperience struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UserID      uint       `json:"user_id" gorm:"index;not null"`
	Company     string     `json:"company" gorm:"type:varchar(100)"`
	Position    string     `json:"position" gorm:"type:varchar(100)"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Description string     `json:"description" gorm:"type:text"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
