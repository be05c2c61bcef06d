package user

import (
	"errors"
	"time"

	"github.com/javokhirdev/rental-management/internal/auth"
)

// SignupDTO is the request payload for creating a user inside the hierarchy.
type SignupDTO struct {
	Username      string `json:"username"`
	Name          string `json:"name"`
	Phone         string `json:"phone,omitempty"`
	Password      string `json:"password"`
	Role          string `json:"role"`
	WorkStartTime string `json:"work_start_time,omitempty"`
	WorkEndTime   string `json:"work_end_time,omitempty"`
}

func (dto SignupDTO) Validate() error {
	if dto.Username == "" {
		return errors.New("username is required")
	}
	if len(dto.Username) < 3 {
		return errors.New("username must be at least 3 characters")
	}
	if dto.Password == "" {
		return errors.New("password is required")
	}
	if len(dto.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if !auth.ValidRole(dto.Role) {
		return errors.New("role must be one of DIRECTOR, ADMIN, SELLER")
	}
	if (dto.WorkStartTime == "") != (dto.WorkEndTime == "") {
		return errors.New("work_start_time and work_end_time must be set together")
	}
	for _, v := range []string{dto.WorkStartTime, dto.WorkEndTime} {
		if v == "" {
			continue
		}
		if _, err := time.Parse("15:04", v); err != nil {
			return errors.New("working hours must be in HH:MM format")
		}
	}
	return nil
}

// UpdateUserDTO carries optional fields; nil means leave unchanged.
type UpdateUserDTO struct {
	Name          *string `json:"name,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Password      *string `json:"password,omitempty"`
	WorkStartTime *string `json:"work_start_time,omitempty"`
	WorkEndTime   *string `json:"work_end_time,omitempty"`
}

func (dto UpdateUserDTO) Validate() error {
	if dto.Password != nil && len(*dto.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	for _, v := range []*string{dto.WorkStartTime, dto.WorkEndTime} {
		if v == nil || *v == "" {
			continue
		}
		if _, err := time.Parse("15:04", *v); err != nil {
			return errors.New("working hours must be in HH:MM format")
		}
	}
	return nil
}
