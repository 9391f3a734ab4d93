package diag

// Diagnostic is one reportable finding. Subject is the qualified type name
// (or "type#N" when no name exists) the finding is about; there are no
// source spans here because the engine consumes an already-parsed graph.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Subject  string
	Message  string
}
