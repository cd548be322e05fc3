package identity

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// encodeUser serializes the user record for storage.
func encodeUser(u User) ([]byte, error) {
	if u.ID == "" {
		return nil, errors.New("user id is empty")
	}

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(u.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(u.Name) })
		e.Field("email", func(e *jx.Encoder) { e.Str(u.Email) })
		e.Field("role", func(e *jx.Encoder) { e.Str(u.Role) })
	})
	return e.Bytes(), nil
}

// decodeUser parses a persisted user record. Records missing the id field or
// containing malformed JSON are rejected.
func decodeUser(data []byte) (User, error) {
	var u User
	d := jx.DecodeBytes(data)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			u.ID, err = d.Str()
		case "name":
			u.Name, err = d.Str()
		case "email":
			u.Email, err = d.Str()
		case "role":
			u.Role, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	}); err != nil {
		return User{}, errors.Wrap(err, "decode user record")
	}
	if u.ID == "" {
		return User{}, errors.New("user record missing id")
	}
	return u, nil
}
