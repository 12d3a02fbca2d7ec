package repositories

import (
	"database/sql"
	"errors"

	intconfig "github.com/designarthur/catdump/internal/config"
	intdb "github.com/designarthur/catdump/internal/db"
	"github.com/designarthur/catdump/internal/domain"
	"github.com/designarthur/catdump/internal/domain/models"
)

type UserRepo struct {
	DB *sql.DB
}

func (r UserRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const userColumns = `id, name, email, phone, address, city, state, zip, COALESCE(company,''), role, password_hash, created_at, updated_at`

func scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.Address, &u.City, &u.State,
		&u.Zip, &u.Company, &u.Role, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (r UserRepo) GetByID(id int64) (models.User, error) {
	u, err := scanUser(r.db().QueryRow(`SELECT `+userColumns+` FROM users WHERE id=? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	return u, err
}

// GetByEmail looks a user up inside the caller's transaction so the quote
// intake upsert reads and writes through the same connection.
func (r UserRepo) GetByEmail(q intdb.DBTX, email string) (models.User, error) {
	u, err := scanUser(q.QueryRow(`SELECT `+userColumns+` FROM users WHERE email=? LIMIT 1`, email))
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, domain.NotFoundError{Resource: "user"}
	}
	return u, err
}

func (r UserRepo) Create(q intdb.DBTX, u models.User) (int64, error) {
	res, err := q.Exec(`
		INSERT INTO users (name, email, phone, address, city, state, zip, company, role, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())
	`, u.Name, u.Email, u.Phone, u.Address, u.City, u.State, u.Zip,
		intdb.NullIfEmpty(u.Company), string(u.Role), u.PasswordHash)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateProfile overwrites contact fields with the latest submission
// (last-write-wins, no diffing).
func (r UserRepo) UpdateProfile(q intdb.DBTX, id int64, u models.User) error {
	_, err := q.Exec(`
		UPDATE users
		SET name=?, phone=?, address=?, city=?, state=?, zip=?, company=COALESCE(?, company), updated_at=NOW()
		WHERE id=?
	`, u.Name, u.Phone, u.Address, u.City, u.State, u.Zip, intdb.NullIfEmpty(u.Company), id)
	return err
}

// ListAdminIDs returns every admin account id for notification fan-out.
func (r UserRepo) ListAdminIDs(q intdb.DBTX) ([]int64, error) {
	rows, err := q.Query(`SELECT id FROM users WHERE role=?`, string(models.RoleAdmin))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
