// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: mongo-username, mongo-password, mongo-host, mongo-database.
package secrets

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// MongoURI assembles a MongoDB connection string from loaded secrets. The
// username, password and host keys are required; the database defaults to
// "recipes".
func MongoURI(secrets map[string]string) (string, error) {
	username := secrets["mongo-username"]
	password := secrets["mongo-password"]
	host := secrets["mongo-host"]
	if username == "" || password == "" || host == "" {
		return "", fmt.Errorf("mongo credentials incomplete: need mongo-username, mongo-password and mongo-host in the secrets directory")
	}

	database := secrets["mongo-database"]
	if database == "" {
		database = "recipes"
	}

	return fmt.Sprintf(
		"mongodb+srv://%s@%s/%s?tls=true&authMechanism=SCRAM-SHA-256&retrywrites=false&maxIdleTimeMS=120000",
		url.UserPassword(username, password).String(),
		host, database,
	), nil
}
