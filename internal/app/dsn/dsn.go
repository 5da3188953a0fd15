package dsn

import (
	"fmt"
	"os"
)

// FromEnv собирает строку подключения к Postgres из переменных окружения
func FromEnv() string {
	host, ok := os.LookupEnv("DB_HOST")
	if !ok {
		return ""
	}
	port, ok := os.LookupEnv("DB_PORT")
	if !ok {
		port = "5432"
	}
	user, ok := os.LookupEnv("DB_USER")
	if !ok {
		return ""
	}
	pass, ok := os.LookupEnv("DB_PASS")
	if !ok {
		return ""
	}
	dbname, ok := os.LookupEnv("DB_NAME")
	if !ok {
		return ""
	}
	sslmode := os.Getenv("DB_SSLMODE")
	if sslmode == "" {
		sslmode = "disable"
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pass, dbname, sslmode)
}
