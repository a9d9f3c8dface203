package repository

import "errors"

// ErrDuplicate возвращается, когда вставка нарушает уникальное ограничение.
// Сервисы переводят её в доменную ошибку недоступности.
var ErrDuplicate = errors.New("duplicate")

// ErrReferenced возвращается, когда удаляемая строка ещё используется
var ErrReferenced = errors.New("still referenced")
