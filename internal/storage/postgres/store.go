package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hongminglow/backoffice/internal/config"
	"github.com/hongminglow/backoffice/internal/models"
	"github.com/hongminglow/backoffice/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store provides Postgres-backed persistence for identities, roles, and dashboard reads.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects using the configured URL, applying the separately configured
// user and password when present, and runs migrations.
func NewStore(ctx context.Context, db config.DatabaseConfig) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(db.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if db.User != "" {
		cfg.ConnConfig.User = db.User
	}
	if db.Password != "" {
		cfg.ConnConfig.Password = db.Password
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS roles (
			id BIGSERIAL PRIMARY KEY,
			name TEXT UNIQUE NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			permissions TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS branches (
			id BIGSERIAL PRIMARY KEY,
			name TEXT UNIQUE NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			full_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive', 'suspended')),
			role_id BIGINT NOT NULL REFERENCES roles(id),
			branch_id BIGINT REFERENCES branches(id),
			last_login TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS orders (
			id BIGSERIAL PRIMARY KEY,
			total_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS restaurant_tables (
			id BIGSERIAL PRIMARY KEY,
			table_number TEXT UNIQUE NOT NULL,
			status TEXT NOT NULL DEFAULT 'available'
		);`,
		`CREATE TABLE IF NOT EXISTS inventory (
			id BIGSERIAL PRIMARY KEY,
			item_name TEXT UNIQUE NOT NULL,
			quantity NUMERIC(12,3) NOT NULL DEFAULT 0,
			reorder_level NUMERIC(12,3) NOT NULL DEFAULT 0
		);`,
		`INSERT INTO roles (name, description, permissions) VALUES
			('admin', 'Administrator', '{"*"}'),
			('manager', 'Branch manager', '{"orders.*","menu.*","inventory.*","tables.*","reports.*","users.view","dashboard.view"}'),
			('staff', 'Floor staff', '{"orders.*","tables.*","menu.view","dashboard.view"}'),
			('kitchen', 'Kitchen staff', '{"orders.view","orders.update","inventory.view"}')
		ON CONFLICT (name) DO NOTHING;`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

const identityColumns = `
	u.id, u.username, u.email, u.password_hash, u.full_name, u.phone, u.status,
	u.last_login, u.created_at, u.updated_at,
	r.id, r.name, r.description, r.permissions, r.created_at, r.updated_at,
	b.id, b.name`

const identitySelect = `SELECT ` + identityColumns + `
	FROM users u
	JOIN roles r ON r.id = u.role_id
	LEFT JOIN branches b ON b.id = u.branch_id`

// FindByID fetches an identity by id.
func (s *Store) FindByID(ctx context.Context, id int64) (models.Identity, error) {
	return scanIdentity(s.pool.QueryRow(ctx, identitySelect+` WHERE u.id = $1`, id))
}

// FindByUsername fetches an identity by username.
func (s *Store) FindByUsername(ctx context.Context, username string) (models.Identity, error) {
	return scanIdentity(s.pool.QueryRow(ctx, identitySelect+` WHERE u.username = $1`, username))
}

// FindByEmail fetches an identity by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.Identity, error) {
	return scanIdentity(s.pool.QueryRow(ctx, identitySelect+` WHERE u.email = $1`, email))
}

// ListIdentities returns every identity, newest first.
func (s *Store) ListIdentities(ctx context.Context) ([]models.Identity, error) {
	rows, err := s.pool.Query(ctx, identitySelect+` ORDER BY u.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Identity
	for rows.Next() {
		identity, err := scanIdentity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, identity)
	}
	return out, rows.Err()
}

// UsernameExists reports whether the username is taken.
func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

// EmailExists reports whether the email is taken.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

// CreateIdentity inserts a new identity row and returns it with its role loaded.
func (s *Store) CreateIdentity(ctx context.Context, identity models.Identity) (models.Identity, error) {
	const query = `
		WITH u AS (
			INSERT INTO users (username, email, password_hash, full_name, phone, status, role_id, branch_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING *
		)
		SELECT ` + identityColumns + `
		FROM u
		JOIN roles r ON r.id = u.role_id
		LEFT JOIN branches b ON b.id = u.branch_id;`

	var branchID *int64
	if identity.Branch != nil && identity.Branch.ID != 0 {
		branchID = &identity.Branch.ID
	}
	row := s.pool.QueryRow(ctx, query,
		identity.Username, identity.Email, identity.PasswordHash, identity.FullName,
		identity.Phone, identity.Status, identity.Role.ID, branchID)
	created, err := scanIdentity(row)
	if err != nil {
		return models.Identity{}, mapWriteError(err)
	}
	return created, nil
}

// UpdateProfile rewrites the editable contact fields of an identity.
func (s *Store) UpdateProfile(ctx context.Context, identity models.Identity) error {
	const query = `
		UPDATE users SET full_name = $2, phone = $3, email = $4, updated_at = NOW()
		WHERE id = $1`
	tag, err := s.pool.Exec(ctx, query, identity.ID, identity.FullName, identity.Phone, identity.Email)
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// UpdateStatus changes the account status.
func (s *Store) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// UpdatePassword stores a new password hash.
func (s *Store) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// UpdateLastLogin records a successful sign-in time.
func (s *Store) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET last_login = $2 WHERE id = $1`, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

const roleSelect = `SELECT id, name, description, permissions, created_at, updated_at FROM roles`

// FindRoleByID fetches a role by id.
func (s *Store) FindRoleByID(ctx context.Context, id int64) (models.Role, error) {
	return scanRole(s.pool.QueryRow(ctx, roleSelect+` WHERE id = $1`, id))
}

// FindRoleByName fetches a role by exact name.
func (s *Store) FindRoleByName(ctx context.Context, name string) (models.Role, error) {
	return scanRole(s.pool.QueryRow(ctx, roleSelect+` WHERE name = $1`, name))
}

// ListRoles returns every role ordered by name.
func (s *Store) ListRoles(ctx context.Context) ([]models.Role, error) {
	rows, err := s.pool.Query(ctx, roleSelect+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

// CreateRole inserts a role.
func (s *Store) CreateRole(ctx context.Context, role models.Role) (models.Role, error) {
	const query = `
		INSERT INTO roles (name, description, permissions) VALUES ($1, $2, $3)
		RETURNING id, name, description, permissions, created_at, updated_at`
	created, err := scanRole(s.pool.QueryRow(ctx, query, role.Name, role.Description, permissionsOf(role)))
	if err != nil {
		return models.Role{}, mapWriteError(err)
	}
	return created, nil
}

// UpdateRole rewrites a role's name, description, and permission set.
func (s *Store) UpdateRole(ctx context.Context, role models.Role) error {
	const query = `
		UPDATE roles SET name = $2, description = $3, permissions = $4, updated_at = NOW()
		WHERE id = $1`
	tag, err := s.pool.Exec(ctx, query, role.ID, role.Name, role.Description, permissionsOf(role))
	if err != nil {
		return mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DashboardStats aggregates today's orders and revenue, occupied tables, and low stock.
func (s *Store) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM orders WHERE created_at >= date_trunc('day', NOW())),
			(SELECT COALESCE(SUM(total_amount), 0)::float8 FROM orders
				WHERE created_at >= date_trunc('day', NOW()) AND status <> 'cancelled'),
			(SELECT COUNT(*) FROM restaurant_tables WHERE status = 'occupied'),
			(SELECT COUNT(*) FROM inventory WHERE quantity <= reorder_level)`
	var stats models.DashboardStats
	err := s.pool.QueryRow(ctx, query).Scan(&stats.TodayOrders, &stats.TodayRevenue, &stats.OccupiedTables, &stats.LowStockItems)
	return stats, err
}

func permissionsOf(role models.Role) []string {
	if role.Permissions == nil {
		return []string{}
	}
	return role.Permissions
}

func scanIdentity(row pgx.Row) (models.Identity, error) {
	var (
		identity   models.Identity
		branchID   *int64
		branchName *string
	)
	err := row.Scan(
		&identity.ID, &identity.Username, &identity.Email, &identity.PasswordHash,
		&identity.FullName, &identity.Phone, &identity.Status,
		&identity.LastLogin, &identity.CreatedAt, &identity.UpdatedAt,
		&identity.Role.ID, &identity.Role.Name, &identity.Role.Description, &identity.Role.Permissions,
		&identity.Role.CreatedAt, &identity.Role.UpdatedAt,
		&branchID, &branchName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Identity{}, storage.ErrNotFound
		}
		return models.Identity{}, err
	}
	if branchID != nil {
		identity.Branch = &models.Branch{ID: *branchID}
		if branchName != nil {
			identity.Branch.Name = *branchName
		}
	}
	return identity, nil
}

func scanRole(row pgx.Row) (models.Role, error) {
	var role models.Role
	if err := row.Scan(&role.ID, &role.Name, &role.Description, &role.Permissions, &role.CreatedAt, &role.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Role{}, storage.ErrNotFound
		}
		return models.Role{}, err
	}
	return role, nil
}

func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return storage.ErrAlreadyExists
		case "23503":
			return storage.ErrNotFound
		}
	}
	return err
}
