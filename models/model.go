package models

// Model is a UI-facing chat model. An empty ProviderKey means the chat
// service cannot route it.
type Model struct {
	ID          string
	Name        string
	Versions    []string
	ProviderKey string
}

func (m Model) Routable() bool {
	return m.ProviderKey != ""
}

func (m Model) HasVersion(v string) bool {
	for _, version := range m.Versions {
		if version == v {
			return true
		}
	}
	return false
}
