// internals/features/users/companies/dto/company_dto.go
package dto

type UpdateCompanyProfileRequest struct {
	CompanyName  *string  `json:"company_name" validate:"omitempty,min=1,max=200"`
	Industry     *string  `json:"industry" validate:"omitempty,max=100"`
	Size         *string  `json:"size" validate:"omitempty,max=50"`
	Description  *string  `json:"description" validate:"omitempty,max=5000"`
	Website      *string  `json:"website" validate:"omitempty,url"`
	Address      *string  `json:"address" validate:"omitempty,max=300"`
	Technologies []string `json:"technologies" validate:"omitempty,dive,max=80"`
	Benefits     []string `json:"benefits" validate:"omitempty,dive,max=120"`
}

type ChangeCompanyStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive suspended"`
}
