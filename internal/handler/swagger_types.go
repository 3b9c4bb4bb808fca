package handler

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// UploadResponse is the body of a successful upload.
type UploadResponse struct {
	URL string `json:"url" example:"https://my-bucket.s3.ap-northeast-2.amazonaws.com/uploads/3f2c1a9e-8b7d-4c6e-9f10-2a3b4c5d6e7f_report.pdf"`
}

// ErrorResponseBody is the body of every failed request.
type ErrorResponseBody struct {
	Error string `json:"error" example:"access denied"`
}

// HealthResponse is the body of the health endpoints.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"storage not reachable"`
}
