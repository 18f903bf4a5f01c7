// Package dberrors maps raw storage failures to the domain error taxonomy.
package dberrors

import (
	"errors"

	"github.com/lib/pq"
)

// Kind - класс ошибки хранилища
type Kind string

const (
	// DuplicateKey - нарушение уникальности (класс 23505)
	DuplicateKey Kind = "duplicate_key"
	// ReferentialIntegrity - нарушение внешнего ключа (класс 23503)
	ReferentialIntegrity Kind = "referential_integrity"
	// StoreError - любая другая ошибка, о которой сообщило хранилище
	StoreError Kind = "store_error"
	// UnknownError - сбой без кода хранилища (сеть, транспорт)
	UnknownError Kind = "unknown_error"
)

// Сообщения для пользователя
const (
	MsgDuplicateKey         = "Запись с такими данными уже существует"
	MsgReferentialIntegrity = "Операция нарушает целостность данных"
	MsgUnknown              = "Неизвестная ошибка"
)

// Error несет класс ошибки и готовое сообщение для пользователя,
// оборачивая исходную ошибку хранилища.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

// New строит классифицированную ошибку поверх исходной
func New(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return string(e.Kind) + ": " + e.cause.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Classify относит сырую ошибку хранилища ровно к одному классу таксономии.
// Уже классифицированная ошибка возвращается как есть.
func Classify(err error) *Error {
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return &Error{Kind: DuplicateKey, Message: MsgDuplicateKey, cause: err}
		case "23503":
			return &Error{Kind: ReferentialIntegrity, Message: MsgReferentialIntegrity, cause: err}
		default:
			return &Error{Kind: StoreError, Message: pqErr.Message, cause: err}
		}
	}

	msg := MsgUnknown
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &Error{Kind: UnknownError, Message: msg, cause: err}
}

// KindOf возвращает класс ошибки, если она была классифицирована
func KindOf(err error) (Kind, bool) {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind, true
	}
	return "", false
}
