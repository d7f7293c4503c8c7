package diag

// Reporter принимает диагностики от стадий конвейера.
type Reporter interface {
	Report(Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// BagReporter складывает диагностики в Bag; лишние сверх лимита теряются.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// Nop drops every diagnostic.
var Nop Reporter = ReporterFunc(func(Diagnostic) {})
