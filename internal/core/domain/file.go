package domain

import (
	"encoding/json"
	"errors"
)

// FileDescriptor identifies one remote file prior to its content being fetched.
// Descriptors are immutable once listed.
type FileDescriptor struct {
	// Name is the base file name. It names the local copy.
	Name string

	// Path is the file path within its repository.
	Path string

	// SHA is the blob SHA reported by the remote.
	SHA string

	// Size is the size in bytes reported by the remote.
	Size int64

	// URL is the browsable location of the file.
	URL string

	// Repository is "owner/name" of the repository holding the file.
	// Optional for single-repository clients.
	Repository string

	// Ref is the branch or commit the file was listed at.
	Ref string
}

// FetchResult is the outcome of one attempt to retrieve and persist a file.
//
// A result is exactly one of success (LocalPath set) or failure (Err set).
// Use FetchSucceeded and FetchFailed to build one; the zero outcome is a
// result that carries neither and is rejected by processing as missing
// its local path.
type FetchResult struct {
	// File is the descriptor the fetch was attempted for.
	File FileDescriptor

	// Source identifies the originating repository or organisation.
	Source string

	localPath string
	err       string
}

// FetchSucceeded builds a success result for content written to localPath.
func FetchSucceeded(source string, file FileDescriptor, localPath string) FetchResult {
	return FetchResult{File: file, Source: source, localPath: localPath}
}

// FetchFailed builds a failure result carrying msg.
func FetchFailed(source string, file FileDescriptor, msg string) FetchResult {
	if msg == "" {
		msg = "unknown error"
	}
	return FetchResult{File: file, Source: source, err: msg}
}

// LocalPath returns where the content was written, or "" for failures.
func (r FetchResult) LocalPath() string {
	return r.localPath
}

// Err returns the failure message, or "" for successes.
func (r FetchResult) Err() string {
	return r.err
}

// Failed reports whether the fetch failed.
func (r FetchResult) Failed() bool {
	return r.err != ""
}

// Metadata returns the fetch metadata carried into a Document.
// It never includes local_path or error.
func (r FetchResult) Metadata() map[string]any {
	meta := map[string]any{
		"name": r.File.Name,
		"path": r.File.Path,
		"size": r.File.Size,
	}
	if r.File.SHA != "" {
		meta["sha"] = r.File.SHA
	}
	if r.File.URL != "" {
		meta["url"] = r.File.URL
	}
	if r.Source != "" {
		meta["source"] = r.Source
	}
	if r.File.Repository != "" {
		meta["repository"] = r.File.Repository
	}
	if r.File.Ref != "" {
		meta["ref"] = r.File.Ref
	}
	return meta
}

// fetchResultJSON is the wire shape of a FetchResult.
type fetchResultJSON struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	SHA        string `json:"sha,omitempty"`
	Size       int64  `json:"size"`
	URL        string `json:"url,omitempty"`
	Repository string `json:"repository,omitempty"`
	Ref        string `json:"ref,omitempty"`
	Source     string `json:"source,omitempty"`
	LocalPath  string `json:"local_path,omitempty"`
	Error      string `json:"error,omitempty"`
}

// MarshalJSON encodes the result with either local_path or error.
func (r FetchResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(fetchResultJSON{
		Name:       r.File.Name,
		Path:       r.File.Path,
		SHA:        r.File.SHA,
		Size:       r.File.Size,
		URL:        r.File.URL,
		Repository: r.File.Repository,
		Ref:        r.File.Ref,
		Source:     r.Source,
		LocalPath:  r.localPath,
		Error:      r.err,
	})
}

// UnmarshalJSON decodes a result, rejecting input carrying both outcomes.
func (r *FetchResult) UnmarshalJSON(data []byte) error {
	var raw fetchResultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.LocalPath != "" && raw.Error != "" {
		return errors.Join(ErrInvalidInput, errors.New("fetch result has both local_path and error"))
	}
	*r = FetchResult{
		File: FileDescriptor{
			Name:       raw.Name,
			Path:       raw.Path,
			SHA:        raw.SHA,
			Size:       raw.Size,
			URL:        raw.URL,
			Repository: raw.Repository,
			Ref:        raw.Ref,
		},
		Source:    raw.Source,
		localPath: raw.LocalPath,
		err:       raw.Error,
	}
	return nil
}
