package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/didi/gendry/builder"
	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"

	"github.com/xxxsen/pdfrag/internal/model"
	"github.com/xxxsen/pdfrag/internal/pkg/dbutil"
)

// upsertBatchSize keeps a single INSERT well under the postgres limit of
// 65535 bind parameters.
const upsertBatchSize = 500

type EmbeddingRepo struct {
	db *sqlx.DB
}

func NewEmbeddingRepo(db *sql.DB) *EmbeddingRepo {
	return &EmbeddingRepo{db: sqlx.NewDb(db, "postgres")}
}

// Upsert writes all records into the collection inside one transaction.
// Records whose id already exists are overwritten.
func (r *EmbeddingRepo) Upsert(ctx context.Context, collectionID string, records []model.Record) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()
	for start := 0; start < len(records); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(records) {
			end = len(records)
		}
		sqlStr, args, err := buildUpsert(collectionID, records[start:end])
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func buildUpsert(collectionID string, records []model.Record) (string, []interface{}, error) {
	data := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		meta, err := json.Marshal(rec.Metadata)
		if err != nil {
			return "", nil, fmt.Errorf("encode metadata of %s: %w", rec.ID, err)
		}
		data = append(data, map[string]interface{}{
			"id":            rec.ID,
			"collection_id": collectionID,
			"embedding":     pgvector.NewVector(rec.Embedding),
			"document":      rec.Content,
			"cmetadata":     string(meta),
		})
	}
	sqlStr, args, err := builder.BuildInsert("langchain_pg_embedding", data)
	if err != nil {
		return "", nil, err
	}
	sqlStr += ` ON CONFLICT (id) DO UPDATE SET
		collection_id = EXCLUDED.collection_id,
		embedding = EXCLUDED.embedding,
		document = EXCLUDED.document,
		cmetadata = EXCLUDED.cmetadata`
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	return sqlStr, args, nil
}

type searchRow struct {
	ID       string         `db:"id"`
	Document sql.NullString `db:"document"`
	Metadata []byte         `db:"cmetadata"`
	Score    float64        `db:"score"`
}

// Search returns the k records of the named collection closest to query by
// cosine distance. Score is the cosine similarity, best first.
func (r *EmbeddingRepo) Search(ctx context.Context, collection string, query []float32, k int) ([]model.SearchResult, error) {
	vec := pgvector.NewVector(query)
	sqlStr, args := dbutil.Finalize(`
		SELECT e.id, e.document, e.cmetadata, 1 - (e.embedding <=> ?) AS score
		FROM langchain_pg_embedding e
		JOIN langchain_pg_collection c ON c.uuid = e.collection_id
		WHERE c.name = ?
		ORDER BY e.embedding <=> ?
		LIMIT ?
	`, []interface{}{vec, collection, vec, k})
	var rows []searchRow
	if err := r.db.SelectContext(ctx, &rows, sqlStr, args...); err != nil {
		return nil, err
	}
	results := make([]model.SearchResult, 0, len(rows))
	for _, row := range rows {
		var meta map[string]any
		if len(row.Metadata) > 0 {
			if err := json.Unmarshal(row.Metadata, &meta); err != nil {
				return nil, fmt.Errorf("decode metadata of %s: %w", row.ID, err)
			}
		}
		results = append(results, model.SearchResult{
			ID:    row.ID,
			Chunk: model.Chunk{Content: row.Document.String, Metadata: meta},
			Score: row.Score,
		})
	}
	return results, nil
}
