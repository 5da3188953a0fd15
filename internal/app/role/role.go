package role

type Role int

const (
	Viewer     Role = iota // только просмотр
	Accountant             // бухгалтер: платежи, задолженности
	Admin                  // администратор: справочники, курсы валют
)

func (r Role) String() string {
	switch r {
	case Viewer:
		return "viewer"
	case Accountant:
		return "accountant"
	case Admin:
		return "admin"
	default:
		return "unknown"
	}
}

// Valid проверяет, что роль входит в известный набор
func (r Role) Valid() bool {
	return r >= Viewer && r <= Admin
}

// Writers - роли, которым разрешено изменять данные
func Writers() []Role {
	return []Role{Accountant, Admin}
}

// All - все авторизованные роли
func All() []Role {
	return []Role{Viewer, Accountant, Admin}
}

// Parse возвращает роль по имени
func Parse(name string) (Role, bool) {
	for _, r := range All() {
		if r.String() == name {
			return r, true
		}
	}
	return Viewer, false
}
