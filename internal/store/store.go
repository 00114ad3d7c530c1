// Package store implements the document store on SQLite: generated
// articles, their metadata, author records and categories.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"overviewly/internal/core"
)

// Store represents the SQLite-backed document store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a store instance with a SQLite database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "overviewly.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:   db,
		path: dbPath,
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the necessary tables
func (s *Store) initialize() error {
	articlesTable := `
	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		title TEXT,
		content TEXT,
		status TEXT,
		category TEXT,
		author_id TEXT,
		date_created DATETIME,
		date_modified DATETIME
	);`

	metaTable := `
	CREATE TABLE IF NOT EXISTS article_meta (
		article_id TEXT,
		key TEXT,
		value TEXT,
		PRIMARY KEY (article_id, key),
		FOREIGN KEY (article_id) REFERENCES articles (id)
	);`

	usersTable := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		login TEXT UNIQUE,
		display_name TEXT
	);`

	categoriesTable := `
	CREATE TABLE IF NOT EXISTS categories (
		name TEXT PRIMARY KEY
	);`

	tables := []string{articlesTable, metaTable, usersTable, categoriesTable}
	for _, table := range tables {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateArticle persists an article and its metadata in one transaction:
// either the document and every metadata entry land, or nothing does.
func (s *Store) CreateArticle(article core.Article, meta map[string]any) error {
	tx, err := s.db.Begin()
	if err != nil {
		return &core.PersistenceError{Op: "create article", Err: err}
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
	INSERT INTO articles (id, title, content, status, category, author_id, date_created, date_modified)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		article.ID,
		article.Title,
		article.Content,
		article.Status,
		article.Category,
		article.AuthorID,
		article.DateCreated,
		article.DateModified,
	)
	if err != nil {
		return &core.PersistenceError{Op: "create article", Err: err}
	}

	for key, value := range meta {
		encoded, err := json.Marshal(value)
		if err != nil {
			return &core.PersistenceError{Op: "encode metadata " + key, Err: err}
		}
		if _, err := tx.Exec(`
		INSERT OR REPLACE INTO article_meta (article_id, key, value) VALUES (?, ?, ?)`,
			article.ID, key, string(encoded)); err != nil {
			return &core.PersistenceError{Op: "write metadata " + key, Err: err}
		}
	}

	if err := tx.Commit(); err != nil {
		return &core.PersistenceError{Op: "create article", Err: err}
	}
	return nil
}

// GetArticle retrieves an article by ID. A miss returns (nil, nil).
func (s *Store) GetArticle(id string) (*core.Article, error) {
	row := s.db.QueryRow(`
	SELECT id, title, content, status, category, author_id, date_created, date_modified
	FROM articles WHERE id = ?`, id)

	var article core.Article
	err := row.Scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&article.Status,
		&article.Category,
		&article.AuthorID,
		&article.DateCreated,
		&article.DateModified,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan article: %w", err)
	}

	return &article, nil
}

// ListArticles returns the most recently created articles.
func (s *Store) ListArticles(limit int) ([]core.Article, error) {
	rows, err := s.db.Query(`
	SELECT id, title, content, status, category, author_id, date_created, date_modified
	FROM articles ORDER BY date_created DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var articles []core.Article
	for rows.Next() {
		var article core.Article
		if err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.Content,
			&article.Status,
			&article.Category,
			&article.AuthorID,
			&article.DateCreated,
			&article.DateModified,
		); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, article)
	}

	return articles, rows.Err()
}

// SetMeta stores a JSON-encoded metadata value for an article.
func (s *Store) SetMeta(articleID, key string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return &core.PersistenceError{Op: "encode metadata " + key, Err: err}
	}
	if _, err := s.db.Exec(`
	INSERT OR REPLACE INTO article_meta (article_id, key, value) VALUES (?, ?, ?)`,
		articleID, key, string(encoded)); err != nil {
		return &core.PersistenceError{Op: "write metadata " + key, Err: err}
	}
	return nil
}

// GetMeta decodes a metadata value into out. The first return is false
// when no value is stored under the key.
func (s *Store) GetMeta(articleID, key string, out any) (bool, error) {
	var raw string
	err := s.db.QueryRow(`
	SELECT value FROM article_meta WHERE article_id = ? AND key = ?`,
		articleID, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read metadata %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, fmt.Errorf("failed to decode metadata %s: %w", key, err)
	}
	return true, nil
}

// GetMetaString reads a string-valued metadata entry, returning empty on a
// miss.
func (s *Store) GetMetaString(articleID, key string) string {
	var value string
	if ok, err := s.GetMeta(articleID, key, &value); err != nil || !ok {
		return ""
	}
	return value
}

var loginJunkRe = regexp.MustCompile(`[^a-z0-9._@-]`)

// NormalizeLogin lowercases a display name and strips characters that are
// not valid in a login.
func NormalizeLogin(name string) string {
	return loginJunkRe.ReplaceAllString(strings.ToLower(name), "")
}

// ResolveAuthor looks up a user by display name, then by the
// login-normalized form of the name. A miss returns (nil, nil).
func (s *Store) ResolveAuthor(name string) (*core.User, error) {
	user, err := s.userBy("display_name", name)
	if err != nil || user != nil {
		return user, err
	}
	return s.userBy("login", NormalizeLogin(name))
}

func (s *Store) userBy(column, value string) (*core.User, error) {
	// column is one of two fixed identifiers, never user input.
	row := s.db.QueryRow(`
	SELECT id, login, display_name FROM users WHERE `+column+` = ?`, value)

	var user core.User
	err := row.Scan(&user.ID, &user.Login, &user.DisplayName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &user, nil
}

// EnsureUser returns the user with the given login, creating it if absent.
func (s *Store) EnsureUser(login, displayName string) (core.User, error) {
	existing, err := s.userBy("login", login)
	if err != nil {
		return core.User{}, err
	}
	if existing != nil {
		return *existing, nil
	}

	user := core.User{
		ID:          uuid.NewString(),
		Login:       login,
		DisplayName: displayName,
	}
	if _, err := s.db.Exec(`
	INSERT INTO users (id, login, display_name) VALUES (?, ?, ?)`,
		user.ID, user.Login, user.DisplayName); err != nil {
		return core.User{}, &core.PersistenceError{Op: "create user", Err: err}
	}
	return user, nil
}

// EnsureCategory records a category name if it is not already known.
func (s *Store) EnsureCategory(name string) error {
	if name == "" {
		return nil
	}
	if _, err := s.db.Exec(`
	INSERT OR IGNORE INTO categories (name) VALUES (?)`, name); err != nil {
		return &core.PersistenceError{Op: "create category", Err: err}
	}
	return nil
}
