package ledger

type memItems[T ILedgerItem] struct {
	gotItems     map[LedgerKey]T
	updatedItems map[LedgerKey]T
	removedKeys  []LedgerKey
}

func newMemItems[T ILedgerItem]() *memItems[T] {
	return &memItems[T]{
		gotItems:     make(map[LedgerKey]T),
		updatedItems: make(map[LedgerKey]T),
	}
}

func (m *memItems[T]) setGotItem(item T) {
	m.gotItems[item.Key()] = item
}

func (m *memItems[T]) setUpdatedItem(item T) {
	m.updatedItems[item.Key()] = item
}

func (m *memItems[T]) appendRemovedKey(key LedgerKey) {
	m.removedKeys = append(m.removedKeys, key)
}

func (m *memItems[T]) getGotItem(key LedgerKey) (T, bool) {
	item, ok := m.gotItems[key]
	return item, ok
}

func (m *memItems[T]) delGotItem(key LedgerKey) {
	delete(m.gotItems, key)
}

func (m *memItems[T]) delUpdatedItem(key LedgerKey) {
	delete(m.updatedItems, key)
}

func (m *memItems[T]) delRemovedKey(key LedgerKey) {
	for i, key0 := range m.removedKeys {
		if key0 == key {
			m.removedKeys = append(m.removedKeys[:i], m.removedKeys[i+1:]...)
			return
		}
	}
}

func (m *memItems[T]) isRemovedKey(key LedgerKey) bool {
	for _, key0 := range m.removedKeys {
		if key0 == key {
			return true
		}
	}
	return false
}

func (m *memItems[T]) reset() {
	m.gotItems = make(map[LedgerKey]T)
	m.updatedItems = make(map[LedgerKey]T)
	m.removedKeys = nil
}
