package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// defaultSecretsDir - стандартный путь Docker Secrets.
const defaultSecretsDir = "/run/secrets"

// ReadSecret читает секрет из файла в каталоге Docker Secrets.
// Каталог можно переопределить переменной окружения SECRETS_DIR.
func ReadSecret(secretName string) (string, error) {
	dir := os.Getenv("SECRETS_DIR")
	if dir == "" {
		dir = defaultSecretsDir
	}
	filePath := filepath.Join(dir, secretName)
	secretBytes, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file %s: %w", filePath, err)
	}
	secret := strings.TrimSpace(string(secretBytes))
	if secret == "" {
		return "", fmt.Errorf("secret file %s is empty", filePath)
	}
	return secret, nil
}
