package data

import (
	"context"
	"database/sql"
)

// Room is a logical grouping of cameras. Deleting a room deletes its
// cameras (ON DELETE CASCADE in migrations/0004_rooms_cameras.up.sql).
type Room struct {
	ID       string
	Name     string
	IsActive bool
}

// Camera's RuntimeStatus is intentionally not part of this struct: the
// spec requires it NOT be persisted (internal/worker owns it at runtime).
type Camera struct {
	ID        string
	RoomID    string
	Name      string
	SourceURL string // frame-source address; workers fetch it with camsource.HTTPSource, so it is an HTTP(S) snapshot URL
	IsActive  bool
}

type RoomRepository interface {
	Create(ctx context.Context, r *Room) error
	GetByID(ctx context.Context, id string) (*Room, error)
	List(ctx context.Context) ([]*Room, error)
	Delete(ctx context.Context, id string) error
}

type CameraRepository interface {
	Create(ctx context.Context, c *Camera) error
	GetByID(ctx context.Context, id string) (*Camera, error)
	ListByRoom(ctx context.Context, roomID string) ([]*Camera, error)
	ListActive(ctx context.Context) ([]*Camera, error)
	Delete(ctx context.Context, id string) error
}

type PostgresRoomRepo struct{ DB DBTX }

func NewPostgresRoomRepo(db DBTX) *PostgresRoomRepo { return &PostgresRoomRepo{DB: db} }

func (r *PostgresRoomRepo) Create(ctx context.Context, room *Room) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO rooms (id, name, is_active) VALUES ($1, $2, $3)`,
		room.ID, room.Name, room.IsActive)
	return err
}

func (r *PostgresRoomRepo) GetByID(ctx context.Context, id string) (*Room, error) {
	var room Room
	err := r.DB.QueryRowContext(ctx, `SELECT id, name, is_active FROM rooms WHERE id = $1`, id).
		Scan(&room.ID, &room.Name, &room.IsActive)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	return &room, err
}

func (r *PostgresRoomRepo) List(ctx context.Context) ([]*Room, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, is_active FROM rooms ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Room
	for rows.Next() {
		var room Room
		if err := rows.Scan(&room.ID, &room.Name, &room.IsActive); err != nil {
			return nil, err
		}
		out = append(out, &room)
	}
	return out, rows.Err()
}

func (r *PostgresRoomRepo) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	return err
}

type PostgresCameraRepo struct{ DB DBTX }

func NewPostgresCameraRepo(db DBTX) *PostgresCameraRepo { return &PostgresCameraRepo{DB: db} }

func (r *PostgresCameraRepo) Create(ctx context.Context, c *Camera) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO cameras (id, room_id, name, source_url, is_active) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.RoomID, c.Name, c.SourceURL, c.IsActive)
	return err
}

func (r *PostgresCameraRepo) GetByID(ctx context.Context, id string) (*Camera, error) {
	var c Camera
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, room_id, name, source_url, is_active FROM cameras WHERE id = $1`, id).
		Scan(&c.ID, &c.RoomID, &c.Name, &c.SourceURL, &c.IsActive)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	return &c, err
}

func (r *PostgresCameraRepo) ListByRoom(ctx context.Context, roomID string) ([]*Camera, error) {
	return r.list(ctx, `SELECT id, room_id, name, source_url, is_active FROM cameras WHERE room_id = $1 ORDER BY name ASC`, roomID)
}

func (r *PostgresCameraRepo) ListActive(ctx context.Context) ([]*Camera, error) {
	return r.list(ctx, `SELECT id, room_id, name, source_url, is_active FROM cameras WHERE is_active = true ORDER BY name ASC`)
}

func (r *PostgresCameraRepo) list(ctx context.Context, query string, args ...any) ([]*Camera, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Camera
	for rows.Next() {
		var c Camera
		if err := rows.Scan(&c.ID, &c.RoomID, &c.Name, &c.SourceURL, &c.IsActive); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *PostgresCameraRepo) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM cameras WHERE id = $1`, id)
	return err
}
