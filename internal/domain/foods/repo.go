package foods

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ pool *pgxpool.Pool }

func NewRepo(pool *pgxpool.Pool) *Repo { return &Repo{pool: pool} }

// ListAll — все продукты в порядке таблицы (по id).
func (r *Repo) ListAll(ctx context.Context) ([]FoodRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name, calories, protein_g, carbs_g, fat_g, fiber_g
		FROM foods
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FoodRecord
	for rows.Next() {
		var f FoodRecord
		if err := rows.Scan(&f.Name, &f.Calories, &f.ProteinG, &f.CarbsG, &f.FatG, &f.FiberG); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM foods`).Scan(&n)
	return n, err
}

// Upsert добавляет продукт или обновляет значения существующего (по имени).
func (r *Repo) Upsert(ctx context.Context, f FoodRecord) (int64, error) {
	if err := f.validate(); err != nil {
		return 0, err
	}
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO foods (name, calories, protein_g, carbs_g, fat_g, fiber_g)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (name) DO UPDATE SET
		  calories=EXCLUDED.calories, protein_g=EXCLUDED.protein_g, carbs_g=EXCLUDED.carbs_g,
		  fat_g=EXCLUDED.fat_g, fiber_g=EXCLUDED.fiber_g, updated_at=now()
		RETURNING id
	`, f.Name, f.Calories, f.ProteinG, f.CarbsG, f.FatG, f.FiberG).Scan(&id)
	return id, err
}

// ReplaceAll заменяет содержимое таблицы одной транзакцией.
// id пересоздаются по порядку входа, так что порядок таблицы сохраняется.
func (r *Repo) ReplaceAll(ctx context.Context, recs []FoodRecord) error {
	if err := checkImport(recs); err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `TRUNCATE foods RESTART IDENTITY`); err != nil {
		return fmt.Errorf("truncate foods: %w", err)
	}

	batch := &pgx.Batch{}
	for _, f := range recs {
		batch.Queue(`
			INSERT INTO foods (name, calories, protein_g, carbs_g, fat_g, fiber_g)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, f.Name, f.Calories, f.ProteinG, f.CarbsG, f.FatG, f.FiberG)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert foods: %w", err)
	}
	return tx.Commit(ctx)
}

// checkImport проверяет записи перед заменой таблицы. name в foods уникален,
// поэтому дубли отклоняем целиком, а не теряем при вставке.
func checkImport(recs []FoodRecord) error {
	seen := make(map[string]int, len(recs))
	for i, f := range recs {
		if err := f.validate(); err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
		if first, dup := seen[f.Name]; dup {
			return fmt.Errorf("record %d: duplicate food name %q (first at record %d)", i+1, f.Name, first)
		}
		seen[f.Name] = i + 1
	}
	return nil
}
