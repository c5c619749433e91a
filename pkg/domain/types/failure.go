package types

// FailureKind classifies why a submission or fetch failed
type FailureKind string

const (
	FailureKindNone      FailureKind = ""
	FailureKindTransport FailureKind = "transport"
	FailureKindTimeout   FailureKind = "timeout"
	FailureKindNotFound  FailureKind = "not_found"
)

func (k FailureKind) String() string {
	return string(k)
}

// NoticeLevel is the severity of a form-level notification
type NoticeLevel string

const (
	NoticeLevelSuccess NoticeLevel = "success"
	NoticeLevelError   NoticeLevel = "error"
)

func (l NoticeLevel) String() string {
	return string(l)
}

// ImageRefKind tags which representation an image field currently holds
type ImageRefKind string

const (
	ImageRefEmpty  ImageRefKind = "empty"
	ImageRefRemote ImageRefKind = "remote"
	ImageRefStaged ImageRefKind = "staged"
)
