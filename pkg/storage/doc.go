// Package storage stores files uploaded through File columns.
//
// Two backends implement [Storage]:
//
//   - [Local] writes into a directory (the application's uploads directory)
//     through an os.Root, so keys cannot escape it.
//   - [S3] writes to an S3-compatible bucket using aws-sdk-go-v2.
//
// Files are served back by the application at /uploads/{key} through
// Storage.Get, whichever backend is used.
//
// # Uploading
//
//	info, err := storage.PutFile(ctx, s, fileHeader,
//		storage.WithPrefix("articles"),
//		storage.WithValidation(storage.MaxSize(10<<20), storage.ImageOnly()),
//	)
//	// info.Key == "articles/3f0c...e1.png"
//
// The content type is detected from the first 512 bytes. Generated keys have
// the form {prefix}/{uuid}{ext}.
//
// # Errors
//
// Backends map their failures to [ErrNotFound], [ErrAccessDenied],
// [ErrUploadFailed] and [ErrDeleteFailed]. Validation rules return
// [ErrFileTooLarge] or [ErrInvalidMIME]; unsafe keys return [ErrInvalidKey].
package storage
