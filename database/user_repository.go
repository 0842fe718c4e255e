package database

import (
	"database/sql"
	"time"

	"PageSchedulerAPI/models"

	"github.com/lib/pq"
)

func (d *Database) CreateUser(user *models.User) error {
	query := `INSERT INTO users (id, facebook_id, name, email, access_token, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := d.DB.Exec(query, user.ID, user.FacebookID, user.Name, user.Email,
		user.AccessToken, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return err
	}
	return d.replacePages(user.ID, user.Pages)
}

func (d *Database) GetUserByID(id string) (*models.User, error) {
	return d.getUser(`SELECT id, facebook_id, name, email, access_token, created_at, updated_at
					  FROM users WHERE id = $1`, id)
}

func (d *Database) GetUserByFacebookID(facebookID string) (*models.User, error) {
	return d.getUser(`SELECT id, facebook_id, name, email, access_token, created_at, updated_at
					  FROM users WHERE facebook_id = $1`, facebookID)
}

func (d *Database) getUser(query, arg string) (*models.User, error) {
	user := &models.User{}
	err := d.DB.QueryRow(query, arg).Scan(&user.ID, &user.FacebookID, &user.Name,
		&user.Email, &user.AccessToken, &user.CreatedAt, &user.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFoundError("user", arg)
	}
	if err != nil {
		return nil, err
	}

	pages, err := d.getPages(user.ID)
	if err != nil {
		return nil, err
	}
	user.Pages = pages
	return user, nil
}

func (d *Database) getPages(userID string) ([]models.Page, error) {
	rows, err := d.DB.Query(`SELECT page_id, name, category, access_token, picture_url
							 FROM pages WHERE user_id = $1 ORDER BY position`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pages := []models.Page{}
	for rows.Next() {
		var page models.Page
		var category, pictureURL sql.NullString
		if err := rows.Scan(&page.ID, &page.Name, &category, &page.AccessToken, &pictureURL); err != nil {
			return nil, err
		}
		page.Category = category.String
		page.PictureURL = pictureURL.String
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

func (d *Database) UpdateUser(id string, patch UserPatch) (*models.User, error) {
	if patch.Name != nil {
		if _, err := d.DB.Exec(`UPDATE users SET name = $1, updated_at = $2 WHERE id = $3`,
			*patch.Name, time.Now(), id); err != nil {
			return nil, err
		}
	}
	if patch.Email != nil {
		if _, err := d.DB.Exec(`UPDATE users SET email = $1, updated_at = $2 WHERE id = $3`,
			*patch.Email, time.Now(), id); err != nil {
			return nil, err
		}
	}
	if patch.AccessToken != nil {
		if _, err := d.DB.Exec(`UPDATE users SET access_token = $1, updated_at = $2 WHERE id = $3`,
			*patch.AccessToken, time.Now(), id); err != nil {
			return nil, err
		}
	}
	if patch.Pages != nil {
		if err := d.replacePages(id, *patch.Pages); err != nil {
			return nil, err
		}
		if _, err := d.DB.Exec(`UPDATE users SET updated_at = $1 WHERE id = $2`, time.Now(), id); err != nil {
			return nil, err
		}
	}
	return d.GetUserByID(id)
}

// replacePages swaps the user's page list wholesale. Pages reappearing under
// a different owner are deleted first so page_id ownership follows the most
// recent refresh.
func (d *Database) replacePages(userID string, pages []models.Page) error {
	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	pageIDs := make([]string, len(pages))
	for i, p := range pages {
		pageIDs[i] = p.ID
	}

	if _, err := tx.Exec(`DELETE FROM pages WHERE user_id = $1 OR page_id = ANY($2)`,
		userID, pq.Array(pageIDs)); err != nil {
		return err
	}

	for i, p := range pages {
		if _, err := tx.Exec(`INSERT INTO pages (page_id, user_id, name, category, access_token, picture_url, position)
							  VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.ID, userID, p.Name, p.Category, p.AccessToken, p.PictureURL, i); err != nil {
			return err
		}
	}

	return tx.Commit()
}
