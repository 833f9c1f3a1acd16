package ecode

const (
	emptyMsg    = "empty"
	requiredMsg = "required"
	invalidMsg  = "invalid"
	failedMsg   = "failed"
	notExistMsg = "does not exist"
)

func subject(suffix string, k []string) string {
	if len(k) > 0 && k[0] != "" {
		return k[0] + " " + suffix
	}
	return suffix
}

// FieldIsEmpty returns field empty message
func FieldIsEmpty(k ...string) string { return subject(emptyMsg, k) }

// FieldIsRequired returns field required message
func FieldIsRequired(k ...string) string { return subject(requiredMsg, k) }

// FieldIsInvalid returns field invalid message
func FieldIsInvalid(k ...string) string { return subject(invalidMsg, k) }

// Failed returns failed message
func Failed(k ...string) string { return subject(failedMsg, k) }

// NotExist returns not exist message
func NotExist(k ...string) string { return subject(notExistMsg, k) }
