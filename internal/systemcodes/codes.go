package systemcodes

const (
	ErrorCodeGeneric       = 1
	ErrorCodeConfiguration = 3
)
