package docstore

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/registrapos/register-api/internal/domain/entity"
	domainRepo "github.com/registrapos/register-api/internal/domain/repository"
)

// branchRepository stores branch documents at the root of the branches tree,
// alongside the nested per-branch collections.
type branchRepository struct {
	store Store
}

// NewBranchRepository creates a document-store branch repository
func NewBranchRepository(store Store) domainRepo.BranchRepository {
	return &branchRepository{store: store}
}

func (r *branchRepository) path(id uuid.UUID) string {
	return Path("branches", id.String())
}

func (r *branchRepository) Create(ctx context.Context, branch *entity.Branch) error {
	if branch.ID == uuid.Nil {
		branch.ID = uuid.New()
	}
	if branch.CreatedAt.IsZero() {
		branch.CreatedAt = time.Now().UTC()
	}
	branch.UpdatedAt = branch.CreatedAt
	return r.store.Write(ctx, r.path(branch.ID), branch)
}

func (r *branchRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error) {
	raw, err := r.store.Read(ctx, r.path(id))
	if err != nil || raw == nil {
		return nil, err
	}
	var branch entity.Branch
	if err := json.Unmarshal(raw, &branch); err != nil {
		return nil, err
	}
	return &branch, nil
}

func (r *branchRepository) Update(ctx context.Context, branch *entity.Branch) error {
	branch.UpdatedAt = time.Now().UTC()
	return r.store.Write(ctx, r.path(branch.ID), branch)
}

// Delete removes the branch document and everything nested under it.
func (r *branchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.store.Remove(ctx, r.path(id))
}

func (r *branchRepository) List(ctx context.Context) ([]entity.Branch, error) {
	docs, err := r.store.List(ctx, "branches")
	if err != nil {
		return nil, err
	}
	branches := make([]entity.Branch, 0, len(docs))
	for _, doc := range docs {
		var branch entity.Branch
		if err := json.Unmarshal(doc.Data, &branch); err != nil {
			return nil, err
		}
		branches = append(branches, branch)
	}
	sort.Slice(branches, func(i, j int) bool { return branches[i].Name < branches[j].Name })
	return branches, nil
}

type userRepository struct {
	store Store
}

// NewUserRepository creates a document-store user repository
func NewUserRepository(store Store) domainRepo.UserRepository {
	return &userRepository{store: store}
}

// userDoc is the stored form of a user. The entity hides the password hash
// from JSON responses; the document still has to carry it.
type userDoc struct {
	entity.User
	Password string `json:"password"`
}

func (d *userDoc) user() *entity.User {
	u := d.User
	u.Password = d.Password
	return &u
}

func (r *userRepository) path(id uuid.UUID) string {
	return Path("users", id.String())
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.UpdatedAt = user.CreatedAt
	return r.store.Write(ctx, r.path(user.ID), &userDoc{User: *user, Password: user.Password})
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	raw, err := r.store.Read(ctx, r.path(id))
	if err != nil || raw == nil {
		return nil, err
	}
	var doc userDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc.user(), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	docs, err := r.store.List(ctx, "users")
	if err != nil {
		return nil, err
	}
	for _, userRaw := range docs {
		var doc userDoc
		if err := json.Unmarshal(userRaw.Data, &doc); err != nil {
			return nil, err
		}
		if strings.EqualFold(doc.Email, email) {
			return doc.user(), nil
		}
	}
	return nil, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now().UTC()
	return r.store.Write(ctx, r.path(user.ID), &userDoc{User: *user, Password: user.Password})
}
