package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
	sc "github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	DefaultItemsPageSize = 20
	MaxItemsPageSize     = 100
	imageUploadValidity  = 15 * time.Minute
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// ItemInput carries the fields of a new item.
type ItemInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	LargeImage  string `json:"largeImage"`
	Price       int    `json:"price"`
}

// ImageUpload is a presigned URL the client PUTs an item image to.
type ImageUpload struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ItemService is a thin layer over the item store. Only creation, deletion
// and image uploads depend on the session.
type ItemService struct {
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	log         logging.Logger
}

func NewItemService(m repomanager.RepositoryManager, config *sc.Config, log logging.Logger) *ItemService {
	return &ItemService{
		repomanager: m,
		config:      config,
		log:         log.With("module", "items"),
	}
}

func notLoggedIn() error {
	return common.NewUserError(common.ErrNotAuthenticated, "You must be logged in to do that!")
}

func itemNotFound(id string) error {
	return common.NewUserError(common.ErrorNotFound, "No item found for id %s", id)
}

// CreateItem stores a new item owned by userID.
func (s *ItemService) CreateItem(ctx context.Context, userID string, in ItemInput) (*models.Item, error) {
	if userID == "" {
		return nil, notLoggedIn()
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, common.NewUserError(common.ErrValidation, "Title is required")
	}
	if in.Price < 0 {
		return nil, common.NewUserError(common.ErrValidation, "Price must not be negative")
	}

	item := &models.Item{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Image:       in.Image,
		LargeImage:  in.LargeImage,
		Price:       in.Price,
		UserID:      userID,
	}

	item, err := s.repomanager.Items().Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("error creating item: %w", err)
	}

	s.log.Info(ctx, "item created", "item_id", item.ID, "user_id", userID)
	return item, nil
}

// GetItem returns one item.
func (s *ItemService) GetItem(ctx context.Context, id string) (*models.Item, error) {
	item, err := s.repomanager.Items().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, itemNotFound(id)
		}
		return nil, fmt.Errorf("error loading item: %w", err)
	}
	return item, nil
}

// ListItems returns a page of items, newest first, and the total item count.
func (s *ItemService) ListItems(ctx context.Context, limit, offset int) ([]*models.Item, int, error) {
	if limit <= 0 {
		limit = DefaultItemsPageSize
	}
	if limit > MaxItemsPageSize {
		limit = MaxItemsPageSize
	}
	if offset < 0 {
		offset = 0
	}

	repo := s.repomanager.Items()

	items, err := repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing items: %w", err)
	}
	total, err := repo.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting items: %w", err)
	}
	return items, total, nil
}

// UpdateItem applies upd to an existing item.
func (s *ItemService) UpdateItem(ctx context.Context, id string, upd models.ItemUpdate) (*models.Item, error) {
	if upd.Price != nil && *upd.Price < 0 {
		return nil, common.NewUserError(common.ErrValidation, "Price must not be negative")
	}

	item, err := s.repomanager.Items().Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, itemNotFound(id)
		}
		return nil, fmt.Errorf("error updating item: %w", err)
	}
	return item, nil
}

// DeleteItem removes an item. Only its owner or a holder of ADMIN or
// ITEMDELETE may delete it.
func (s *ItemService) DeleteItem(ctx context.Context, userID, id string) (*models.Item, error) {
	if userID == "" {
		return nil, notLoggedIn()
	}

	var deleted *models.Item

	err := s.repomanager.WithTx(ctx, func(ctx context.Context, m repomanager.RepositoryManager) error {
		item, err := m.Items().GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return itemNotFound(id)
			}
			return fmt.Errorf("error loading item: %w", err)
		}

		if item.UserID != userID {
			user, err := m.Users().GetByID(ctx, userID)
			if err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					return notLoggedIn()
				}
				return fmt.Errorf("error loading user: %w", err)
			}
			if err := auth.HasPermission(user, models.PermissionAdmin, models.PermissionItemDelete); err != nil {
				return err
			}
		}

		if err := m.Items().Delete(ctx, id); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return itemNotFound(id)
			}
			return fmt.Errorf("error deleting item: %w", err)
		}
		deleted = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "item deleted", "item_id", id, "user_id", userID)
	return deleted, nil
}

// GetRandomStorageKey returns a fresh object key for an item image.
func GetRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("items/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *ItemService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// ItemImageUploadURL returns a presigned PUT URL for a new item image.
func (s *ItemService) ItemImageUploadURL(ctx context.Context, userID string) (*ImageUpload, error) {
	if userID == "" {
		return nil, notLoggedIn()
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("error creating presign client: %w", err)
	}

	bucket := s.config.S3Bucket
	key := GetRandomStorageKey()

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(imageUploadValidity))
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %w", err)
	}

	return &ImageUpload{Key: key, URL: req.URL}, nil
}
