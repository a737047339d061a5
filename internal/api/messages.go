// Package api defines the StoreIt wire contract: request and response
// messages, the gRPC service descriptor and the JSON codec they travel in.
package api

import "time"

type RegisterRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserID    string `json:"user_id"`
	AccountID string `json:"account_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutResponse struct{}

// Owner is the user a file belongs to.
type Owner struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// File is the client view of a stored file.
type File struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Extension    string    `json:"extension"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	Owner        Owner     `json:"owner"`
	AccountID    string    `json:"account_id"`
	Users        []string  `json:"users"`
	BucketFileID string    `json:"bucket_file_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UploadFileRequest carries the file body; Path keys the revalidation signal.
type UploadFileRequest struct {
	Name    string `json:"name"`
	Content []byte `json:"content"`
	Path    string `json:"path"`
}

type UploadFileResponse struct {
	File *File `json:"file"`
}

type ListFilesRequest struct{}

type ListFilesResponse struct {
	Files []*File `json:"files"`
}

type RenameFileRequest struct {
	FileID    string `json:"file_id"`
	Name      string `json:"name"`
	Extension string `json:"extension"`
	Path      string `json:"path"`
}

type RenameFileResponse struct {
	File *File `json:"file"`
}

type UpdateFileUsersRequest struct {
	FileID string   `json:"file_id"`
	Emails []string `json:"emails"`
	Path   string   `json:"path"`
}

type UpdateFileUsersResponse struct {
	File *File `json:"file"`
}

type DeleteFileRequest struct {
	FileID       string `json:"file_id"`
	BucketFileID string `json:"bucket_file_id"`
	Path         string `json:"path"`
}

type DeleteFileResponse struct{}
