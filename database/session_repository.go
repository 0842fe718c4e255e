package database

import (
	"database/sql"
	"time"

	"PageSchedulerAPI/models"
)

func (d *Database) CreateSession(session *models.Session) error {
	query := `INSERT INTO sessions (id, user_id, created_at) VALUES ($1, $2, $3)`
	_, err := d.DB.Exec(query, session.ID, session.UserID, session.CreatedAt)
	return err
}

func (d *Database) GetSession(id string) (*models.Session, error) {
	session := &models.Session{}
	query := `SELECT id, user_id, created_at FROM sessions WHERE id = $1`

	err := d.DB.QueryRow(query, id).Scan(&session.ID, &session.UserID, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFoundError("session", id)
	}
	if err != nil {
		return nil, err
	}
	return session, nil
}

func (d *Database) DeleteSession(id string) error {
	_, err := d.DB.Exec(`DELETE FROM sessions WHERE id = $1`, id)
	return err
}

func (d *Database) DeleteSessionsCreatedBefore(cutoff time.Time) (int, error) {
	result, err := d.DB.Exec(`DELETE FROM sessions WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}
