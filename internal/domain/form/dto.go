package form

type GenerateFormInput struct {
	Description string `json:"description" binding:"required"`
}

type SaveFormResponse struct {
	ID string `json:"id"`
}
