package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/audiofx/api/internal/model"
)

// Redis implements JobStore, FileStore, TokenStore and DownloadStore
// on a shared Redis client.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) SaveJob(ctx context.Context, job *model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, "job:"+job.ID, data, JobTTL).Err()
}

func (r *Redis) GetJob(ctx context.Context, id string) (*model.Job, error) {
	data, err := r.client.Get(ctx, "job:"+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *Redis) PutFile(ctx context.Context, fileID, storageKey string) error {
	return r.client.Set(ctx, "file:"+fileID, storageKey, FileHandleTTL).Err()
}

func (r *Redis) GetFile(ctx context.Context, fileID string) (string, error) {
	key, err := r.client.Get(ctx, "file:"+fileID).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrNotFound
		}
		return "", err
	}
	return key, nil
}

func (r *Redis) PutToken(ctx context.Context, token string, art Artifact) error {
	data, err := json.Marshal(art)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, "temp_download:"+token, data, TokenTTL).Err()
}

func (r *Redis) GetToken(ctx context.Context, token string) (Artifact, error) {
	data, err := r.client.Get(ctx, "temp_download:"+token).Bytes()
	if err != nil {
		if err == redis.Nil {
			return Artifact{}, ErrNotFound
		}
		return Artifact{}, err
	}

	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return Artifact{}, fmt.Errorf("corrupt token record: %w", err)
	}
	return art, nil
}

func (r *Redis) PutUserArtifact(ctx context.Context, userID, filename string, art Artifact) error {
	data, err := json.Marshal(art)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, "download:"+userID+":"+filename, data, DownloadTTL).Err()
}

func (r *Redis) GetUserArtifact(ctx context.Context, userID, filename string) (Artifact, error) {
	data, err := r.client.Get(ctx, "download:"+userID+":"+filename).Bytes()
	if err != nil {
		if err == redis.Nil {
			return Artifact{}, ErrNotFound
		}
		return Artifact{}, err
	}

	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return Artifact{}, fmt.Errorf("corrupt download record: %w", err)
	}
	return art, nil
}
