package util

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// Quiz scores live on a 0-10 scale; a score at or above the passing mark
// locks the quiz against further attempts.
const (
	QuizScoreScale   = 10.0
	QuizPassingScore = 7.0
)

const (
	MimeVideo = "video/"
	MimeImage = "image/"
	MimePDF   = "application/pdf"
)
