package internal

const (
	Smallfloat32 = 1e-5
	Smallfloat64 = 1e-8
)
