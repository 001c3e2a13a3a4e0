package response

const (
	CodeOK         = 0
	CodeBadRequest = 400
	CodeNotFound   = 404
	CodeInternal   = 500
)
