package database

import (
	"database/sql"
	"time"

	"PageSchedulerAPI/models"
)

func (d *Database) CreatePost(post *models.ScheduledPost) error {
	query := `INSERT INTO scheduled_posts (id, user_id, original_text, enhanced_content, scheduled_time, status, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := d.DB.Exec(query, post.ID, post.UserID, post.OriginalText, post.EnhancedContent,
		post.ScheduledTime, post.Status, post.CreatedAt, post.UpdatedAt); err != nil {
		return err
	}
	if len(post.Results) > 0 {
		return d.replaceResults(post.ID, post.Results)
	}
	return nil
}

func (d *Database) GetPost(id string) (*models.ScheduledPost, error) {
	post := &models.ScheduledPost{}
	query := `SELECT id, user_id, original_text, enhanced_content, scheduled_time, status, created_at, updated_at
			  FROM scheduled_posts WHERE id = $1`

	err := d.DB.QueryRow(query, id).Scan(&post.ID, &post.UserID, &post.OriginalText,
		&post.EnhancedContent, &post.ScheduledTime, &post.Status, &post.CreatedAt, &post.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, models.NewNotFoundError("post", id)
	}
	if err != nil {
		return nil, err
	}

	results, err := d.getResults(id)
	if err != nil {
		return nil, err
	}
	post.Results = results
	return post, nil
}

func (d *Database) GetUserPosts(userID string) ([]*models.ScheduledPost, error) {
	query := `SELECT id, user_id, original_text, enhanced_content, scheduled_time, status, created_at, updated_at
			  FROM scheduled_posts WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := d.DB.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []*models.ScheduledPost{}
	for rows.Next() {
		post := &models.ScheduledPost{}
		err := rows.Scan(&post.ID, &post.UserID, &post.OriginalText, &post.EnhancedContent,
			&post.ScheduledTime, &post.Status, &post.CreatedAt, &post.UpdatedAt)
		if err != nil {
			continue
		}
		post.Results, _ = d.getResults(post.ID)
		posts = append(posts, post)
	}

	return posts, nil
}

func (d *Database) UpdatePost(id string, patch PostPatch) (*models.ScheduledPost, error) {
	if patch.Status != nil {
		if _, err := d.DB.Exec(`UPDATE scheduled_posts SET status = $1, updated_at = $2 WHERE id = $3`,
			*patch.Status, time.Now(), id); err != nil {
			return nil, err
		}
	}
	if patch.EnhancedContent != nil {
		if _, err := d.DB.Exec(`UPDATE scheduled_posts SET enhanced_content = $1, updated_at = $2 WHERE id = $3`,
			*patch.EnhancedContent, time.Now(), id); err != nil {
			return nil, err
		}
	}
	if patch.Results != nil {
		if err := d.replaceResults(id, *patch.Results); err != nil {
			return nil, err
		}
		if _, err := d.DB.Exec(`UPDATE scheduled_posts SET updated_at = $1 WHERE id = $2`, time.Now(), id); err != nil {
			return nil, err
		}
	}
	return d.GetPost(id)
}

func (d *Database) UpdatePostResult(postID, pageID string, patch ResultPatch) error {
	if patch.PostID != nil {
		if _, err := d.DB.Exec(`UPDATE publish_results SET external_post_id = $1 WHERE post_id = $2 AND page_id = $3`,
			*patch.PostID, postID, pageID); err != nil {
			return err
		}
	}
	if patch.Error != nil {
		if _, err := d.DB.Exec(`UPDATE publish_results SET error_message = $1 WHERE post_id = $2 AND page_id = $3`,
			*patch.Error, postID, pageID); err != nil {
			return err
		}
	}
	if patch.Status != nil {
		if _, err := d.DB.Exec(`UPDATE publish_results SET status = $1 WHERE post_id = $2 AND page_id = $3`,
			*patch.Status, postID, pageID); err != nil {
			return err
		}
	}
	return nil
}

func (d *Database) DeletePost(id string) error {
	result, err := d.DB.Exec(`DELETE FROM scheduled_posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return models.NewNotFoundError("post", id)
	}
	return nil
}

func (d *Database) DeletePostsCreatedBefore(cutoff time.Time) (int, error) {
	result, err := d.DB.Exec(`DELETE FROM scheduled_posts WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

func (d *Database) getResults(postID string) ([]models.PublishResult, error) {
	query := `SELECT page_id, page_name, external_post_id, error_message, status, created_at
			  FROM publish_results WHERE post_id = $1 ORDER BY position`

	rows, err := d.DB.Query(query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.PublishResult{}
	for rows.Next() {
		var r models.PublishResult
		var externalID, errMsg sql.NullString
		if err := rows.Scan(&r.PageID, &r.PageName, &externalID, &errMsg, &r.Status, &r.Timestamp); err != nil {
			return nil, err
		}
		r.PostID = externalID.String
		r.Error = errMsg.String
		results = append(results, r)
	}
	return results, rows.Err()
}

func (d *Database) replaceResults(postID string, results []models.PublishResult) error {
	tx, err := d.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM publish_results WHERE post_id = $1`, postID); err != nil {
		return err
	}
	for i, r := range results {
		if _, err := tx.Exec(`INSERT INTO publish_results (post_id, page_id, page_name, external_post_id, error_message, status, position, created_at)
							  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			postID, r.PageID, r.PageName, r.PostID, r.Error, r.Status, i, r.Timestamp); err != nil {
			return err
		}
	}

	return tx.Commit()
}
