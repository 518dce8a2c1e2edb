package registry

import "github.com/roach88/inscripciones/internal/attendee"

// MsgRegistered is shown after a successful registration.
const MsgRegistered = "Participante registrado correctamente"

// Message returns the user-facing text for err. Errors outside the attendee
// taxonomy fall back to err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}

	switch attendee.KindOf(err) {
	case attendee.KindMissingRequiredField:
		return "Por favor complete todos los campos obligatorios"
	case attendee.KindInvalidEmailFormat:
		return "El email debe contener el símbolo @"
	case attendee.KindInvalidNumericField:
		if attendee.FieldOf(err) == attendee.FieldPhone {
			return "El teléfono debe contener solo números"
		}
		return "El DNI debe contener solo números"
	case attendee.KindDuplicateKey:
		return "El DNI ya está registrado"
	case attendee.KindNotFound:
		return "No se encontró ningún inscripto con ese DNI"
	case attendee.KindStorageUnavailable:
		return "No se pudo acceder a la base de datos de inscripciones"
	}
	return err.Error()
}
