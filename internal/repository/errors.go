package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrNotFound — запись не найдена.
var ErrNotFound = errors.New("record not found")

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Коды ошибок, после которых транзакцию бронирования можно повторить целиком.
var (
	pgConflictCodes = map[string]bool{
		"40001": true, // serialization_failure
		"40P01": true, // deadlock_detected
		"55P03": true, // lock_not_available
		"23505": true, // unique_violation
	}
	mysqlConflictNumbers = map[uint16]bool{
		1205: true, // lock wait timeout
		1213: true, // deadlock
		1062: true, // duplicate entry
	}
)

// IsConflict: err — таймаут блокировки, дедлок, сбой сериализации или
// нарушение уникальности при записи брони.
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgConflictCodes[pgErr.Code]
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return mysqlConflictNumbers[myErr.Number]
	}

	return false
}

// IsDuplicate: err — нарушение уникального индекса.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return false
}
