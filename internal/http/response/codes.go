package response

const (
	CodeOK         = 0
	CodeBadRequest = 400
	CodeNotFound   = 404
	CodeConflict   = 409
	CodeUpstream   = 502
	CodeInternal   = 500
)
