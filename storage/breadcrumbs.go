package storage

// Breadcrumbs remembers the last order and table the device worked with, so a
// customer returning to the screen can be shown them again.
type Breadcrumbs struct {
	store Storage
}

func NewBreadcrumbs(s Storage) *Breadcrumbs {
	return &Breadcrumbs{store: s}
}

func (b *Breadcrumbs) LastOrderID() string {
	var id string
	LoadJSON(b.store, KeyLastOrderID, &id)
	return id
}

func (b *Breadcrumbs) SetLastOrderID(id string) error {
	return SaveJSON(b.store, KeyLastOrderID, id)
}

func (b *Breadcrumbs) LastTableID() string {
	var id string
	LoadJSON(b.store, KeyLastTableID, &id)
	return id
}

func (b *Breadcrumbs) SetLastTableID(id string) error {
	return SaveJSON(b.store, KeyLastTableID, id)
}
