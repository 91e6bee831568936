package dto

// CreateTenantRequest onboards a tenant with its first administrator
type CreateTenantRequest struct {
	Name          string `json:"name" binding:"required,min=2,max=200"`
	RUT           string `json:"rut" binding:"required,rut"`
	Slug          string `json:"slug" binding:"required,max=63,tenantslug"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"phone" binding:"omitempty,phonecl"`
	Address       string `json:"address" binding:"omitempty,max=300"`
	Plan          string `json:"plan" binding:"required,oneof=Basic Standard Premium"`
	Licenses      int    `json:"licenses" binding:"required,min=1"`
	AdminEmail    string `json:"admin_email" binding:"required,email"`
	AdminPassword string `json:"admin_password" binding:"required,min=8,max=100"`
	AdminFirst    string `json:"admin_first_name" binding:"required,min=2,max=50"`
	AdminLast     string `json:"admin_last_name" binding:"required,min=2,max=50"`
}
