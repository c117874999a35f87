package models

// User-facing success messages, kept verbatim from the client application.
const (
	MsgUserAdded       = "Usuario agregado exitosamente"
	MsgUserDeleted     = "Usuario eliminado exitosamente"
	MsgUserUpdated     = "Usuario modificado exitosamente"
	MsgPasswordChanged = "Contraseña modificada exitosamente"
)
