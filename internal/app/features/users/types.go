package users

// updateBody carries the PATCH fields; absent fields stay nil and are
// not written.
type updateBody struct {
	Name     *string `json:"name"`
	PhotoURL *string `json:"photo_url"`
	Role     *string `json:"role"`
}
