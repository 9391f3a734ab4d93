package diag

// Reporter decouples diagnostic producers from the bag they fill.
type Reporter interface {
	Report(code Code, sev Severity, subject, msg string)
}

// BagReporter is the plain Reporter over a Bag.
type BagReporter struct {
	Bag *Bag
}

func (r *BagReporter) Report(code Code, sev Severity, subject, msg string) {
	if r == nil || r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev,
		Code:     code,
		Subject:  subject,
		Message:  msg,
	})
}
