package rc4bias

// Tally and Mode expose the counting pass.
var (
	Tally = tally
	Mode  = mode
)
