package implementation

import (
	"context"

	"krackenx-chat-be/internal/entity"
	"krackenx-chat-be/internal/mapper"
	"krackenx-chat-be/internal/model"
	"krackenx-chat-be/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FriendRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FriendMapper
}

func NewFriendRepository(db *gorm.DB) contract.FriendRepository {
	return &FriendRepositoryImpl{
		db:     db,
		mapper: mapper.NewFriendMapper(),
	}
}

func (r *FriendRepositoryImpl) UpsertPending(ctx context.Context, minId, maxId uint) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "friend_id"}},
			DoNothing: true,
		}).
		Create(&model.Friend{
			UserId:   minId,
			FriendId: maxId,
			Status:   string(entity.FriendStatusPending),
		}).Error
}

func (r *FriendRepositoryImpl) UpdatePairStatus(ctx context.Context, minId, maxId uint, status entity.FriendStatus) error {
	return r.db.WithContext(ctx).Model(&model.Friend{}).
		Where("user_id = ? AND friend_id = ?", minId, maxId).
		Update("status", string(status)).Error
}

type friendRow struct {
	UserId   uint   `gorm:"column:user_id"`
	Username string `gorm:"column:username"`
	Status   string `gorm:"column:status"`
}

func (r *FriendRepositoryImpl) ListForUser(ctx context.Context, userId uint) ([]*entity.FriendInfo, error) {
	// Each pair is stored once in canonical order, so the listing reads both
	// directions and projects the other side.
	var rows []friendRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT f.friend_id AS user_id, u.username, f.status
		FROM friends f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = ?
		UNION ALL
		SELECT f.user_id AS user_id, u.username, f.status
		FROM friends f
		JOIN users u ON u.id = f.user_id
		WHERE f.friend_id = ?
	`, userId, userId).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	infos := make([]*entity.FriendInfo, len(rows))
	for i, row := range rows {
		infos[i] = &entity.FriendInfo{
			UserId:   row.UserId,
			Username: row.Username,
			Status:   entity.FriendStatus(row.Status),
		}
	}
	return infos, nil
}

func (r *FriendRepositoryImpl) CreateRequest(ctx context.Context, request *entity.FriendRequest) error {
	m := r.mapper.RequestToModel(request)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_user_id"}, {Name: "to_user_id"}},
			DoNothing: true,
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*request = *r.mapper.RequestToEntity(m)
	return nil
}

func (r *FriendRepositoryImpl) FindPendingRequestsFor(ctx context.Context, toUserId uint) ([]*entity.FriendRequest, error) {
	var models []*model.FriendRequest
	err := r.db.WithContext(ctx).
		Where("to_user_id = ? AND status = ?", toUserId, string(entity.FriendStatusPending)).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.RequestsToEntities(models), nil
}

func (r *FriendRepositoryImpl) UpdateRequestStatus(ctx context.Context, fromUserId, toUserId uint, status entity.FriendStatus) error {
	return r.db.WithContext(ctx).Model(&model.FriendRequest{}).
		Where("from_user_id = ? AND to_user_id = ?", fromUserId, toUserId).
		Update("status", string(status)).Error
}
