package models

// ModelRegistry lists every model handled by --auto-migrate.
var ModelRegistry = []interface{}{
	&Reservation{},
	&EmailSignup{},
}
