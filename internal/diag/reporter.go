package diag

// Reporter — минимальный контракт получения диагностик от проверок.
// Реализации: BagReporter (кладёт в Bag), NopReporter.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter — адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// NopReporter отбрасывает все диагностики.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}
