package entity

type Module struct {
	BaseNoDelete
	ModuleName string `db:"module_name"`
}

type Group struct {
	BaseNoDelete
	GroupName string `db:"group_name"`
}
