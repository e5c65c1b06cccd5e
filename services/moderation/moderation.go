package moderation

import (
	"context"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"

	"github.com/permaweb/permaweb-go/ao"
	"github.com/permaweb/permaweb-go/codec"
	"github.com/permaweb/permaweb-go/services/zone"
	"github.com/permaweb/permaweb-go/types"
	"github.com/permaweb/permaweb-go/utils"
)

var log = logging.Logger("moderation")

const (
	// ZonePath is the zone store path moderation entries are appended to.
	ZonePath = "Moderation"
	zoneKey  = "moderation"
)

type ModerationSvc struct {
	zones   *zone.ZoneSvc
	gateway *ao.Gateway
	now     func() time.Time
}

func NewModerationSvc(zones *zone.ZoneSvc) *ModerationSvc {
	return &ModerationSvc{
		zones:   zones,
		gateway: zones.Gateway(),
		now:     time.Now,
	}
}

func validateEntry(entry types.ModerationEntry) error {
	if entry.TargetType == "" {
		return types.Missing("targetType")
	}
	if entry.TargetId == "" {
		return types.Missing("targetId")
	}
	if entry.Status == "" {
		return types.Missing("status")
	}
	return nil
}

// AddZoneEntry appends entry to the moderation log of a zone.
func (ms *ModerationSvc) AddZoneEntry(ctx context.Context, zoneId string, entry types.ModerationEntry) (string, error) {
	if err := validateEntry(entry); err != nil {
		return "", err
	}
	if entry.Moderator == "" {
		return "", types.Missing("moderator")
	}
	if entry.DateCreated == 0 {
		entry.DateCreated = ms.now().UnixMilli()
	}
	return ms.zones.Append(ctx, ZonePath, entry, zoneId)
}

// GetZoneEntries returns the moderation log of a zone, oldest first.
func (ms *ModerationSvc) GetZoneEntries(ctx context.Context, zoneId string) ([]types.ModerationEntry, error) {
	z, err := ms.zones.Get(ctx, zoneId)
	if err != nil {
		return nil, err
	}

	entries := []types.ModerationEntry{}
	raw, ok := z.Store[zoneKey]
	if !ok || raw == nil {
		return entries, nil
	}
	if err := codec.Decode(raw, &entries); err != nil {
		return nil, xerrors.Errorf("zone %s moderation log: %w", zoneId, err)
	}
	return entries, nil
}

// AddEntry records entry in a moderation process. The process takes the
// sender as moderator.
func (ms *ModerationSvc) AddEntry(ctx context.Context, moderationId string, entry types.ModerationEntry) (string, error) {
	if !utils.CheckValidAddress(moderationId) {
		return "", types.Wrapf(types.ErrInvalidArgs, "invalid moderation process %q", moderationId)
	}
	if err := validateEntry(entry); err != nil {
		return "", err
	}

	tags := []types.Tag{
		{Name: types.TagTargetType, Value: entry.TargetType},
		{Name: types.TagTargetId, Value: entry.TargetId},
		{Name: types.TagStatus, Value: entry.Status},
	}
	if entry.TargetContext != "" {
		tags = append(tags, types.Tag{Name: types.TagTargetContext, Value: entry.TargetContext})
	}
	if entry.Reason != "" {
		tags = append(tags, types.Tag{Name: types.TagReason, Value: entry.Reason})
	}

	req := ao.SendRequest{ProcessId: moderationId, Action: types.ActionAddModerationEntry, Tags: tags}
	if len(entry.Metadata) > 0 {
		req.Data = entry.Metadata
	}
	messageId, err := ms.gateway.SendAndConfirm(ctx, req)
	if err != nil {
		return "", err
	}
	log.Infof("moderation entry for %s %s added to %s", entry.TargetType, entry.TargetId, moderationId)
	return messageId, nil
}

func filterTags(filter types.ModerationFilter) ([]types.Tag, error) {
	fields := map[string]interface{}{}
	for name, value := range map[string]string{
		types.TagTargetType:    filter.TargetType,
		types.TagTargetId:      filter.TargetId,
		types.TagTargetContext: filter.TargetContext,
		types.TagStatus:        filter.Status,
		types.TagModerator:     filter.Moderator,
	} {
		if value != "" {
			fields[name] = value
		}
	}
	return codec.ObjectToTags(fields)
}

// GetEntries lists the entries of a moderation process matching every set
// field of filter.
func (ms *ModerationSvc) GetEntries(ctx context.Context, moderationId string, filter types.ModerationFilter) ([]types.ModerationEntry, error) {
	if !utils.CheckValidAddress(moderationId) {
		return nil, types.Wrapf(types.ErrInvalidArgs, "invalid moderation process %q", moderationId)
	}

	tags, err := filterTags(filter)
	if err != nil {
		return nil, err
	}
	result, err := ms.gateway.DryRun(ctx, ao.DryRunRequest{
		ProcessId: moderationId,
		Action:    types.ActionGetModerationEntries,
		Tags:      tags,
	})
	if err != nil {
		return nil, err
	}

	entries := []types.ModerationEntry{}
	if result == nil {
		return entries, nil
	}
	if err := codec.Decode(codec.FromProcessCase(result), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// UpdateEntry changes the status and optionally the reason of the entry for
// a target.
func (ms *ModerationSvc) UpdateEntry(ctx context.Context, moderationId string, targetType string, targetId string, status string, reason string) (string, error) {
	if status == "" {
		return "", types.Missing("status")
	}
	tags := []types.Tag{{Name: types.TagStatus, Value: status}}
	if reason != "" {
		tags = append(tags, types.Tag{Name: types.TagReason, Value: reason})
	}
	return ms.sendTarget(ctx, moderationId, types.ActionUpdateModerationEntry, targetType, targetId, tags)
}

func (ms *ModerationSvc) RemoveEntry(ctx context.Context, moderationId string, targetType string, targetId string) (string, error) {
	return ms.sendTarget(ctx, moderationId, types.ActionRemoveModerationEntry, targetType, targetId, nil)
}

func (ms *ModerationSvc) sendTarget(ctx context.Context, moderationId string, action string, targetType string, targetId string, extra []types.Tag) (string, error) {
	if !utils.CheckValidAddress(moderationId) {
		return "", types.Wrapf(types.ErrInvalidArgs, "invalid moderation process %q", moderationId)
	}
	if targetType == "" {
		return "", types.Missing("targetType")
	}
	if targetId == "" {
		return "", types.Missing("targetId")
	}

	tags := append([]types.Tag{
		{Name: types.TagTargetType, Value: targetType},
		{Name: types.TagTargetId, Value: targetId},
	}, extra...)
	return ms.gateway.SendAndConfirm(ctx, ao.SendRequest{ProcessId: moderationId, Action: action, Tags: tags})
}

// AddSubscription makes a moderation process follow the entries of another
// moderation process.
func (ms *ModerationSvc) AddSubscription(ctx context.Context, moderationId string, subscriptionId string, subscriptionType string) (string, error) {
	if !utils.CheckValidAddress(subscriptionId) {
		return "", types.Wrapf(types.ErrInvalidArgs, "invalid subscription %q", subscriptionId)
	}
	tags := []types.Tag{{Name: types.TagSubscriptionId, Value: subscriptionId}}
	if subscriptionType != "" {
		tags = append(tags, types.Tag{Name: types.TagSubscriptionType, Value: subscriptionType})
	}
	return ms.sendSubscription(ctx, moderationId, types.ActionAddModerationSubscription, tags)
}

func (ms *ModerationSvc) RemoveSubscription(ctx context.Context, moderationId string, subscriptionId string) (string, error) {
	if !utils.CheckValidAddress(subscriptionId) {
		return "", types.Wrapf(types.ErrInvalidArgs, "invalid subscription %q", subscriptionId)
	}
	tags := []types.Tag{{Name: types.TagSubscriptionId, Value: subscriptionId}}
	return ms.sendSubscription(ctx, moderationId, types.ActionRemoveModerationSubscription, tags)
}

func (ms *ModerationSvc) sendSubscription(ctx context.Context, moderationId string, action string, tags []types.Tag) (string, error) {
	if !utils.CheckValidAddress(moderationId) {
		return "", types.Wrapf(types.ErrInvalidArgs, "invalid moderation process %q", moderationId)
	}
	return ms.gateway.SendAndConfirm(ctx, ao.SendRequest{ProcessId: moderationId, Action: action, Tags: tags})
}

func (ms *ModerationSvc) GetSubscriptions(ctx context.Context, moderationId string) ([]types.ModerationSubscription, error) {
	if !utils.CheckValidAddress(moderationId) {
		return nil, types.Wrapf(types.ErrInvalidArgs, "invalid moderation process %q", moderationId)
	}

	result, err := ms.gateway.DryRun(ctx, ao.DryRunRequest{ProcessId: moderationId, Action: types.ActionGetModerationSubscriptions})
	if err != nil {
		return nil, err
	}
	subscriptions := []types.ModerationSubscription{}
	if result == nil {
		return subscriptions, nil
	}
	if err := codec.Decode(codec.FromProcessCase(result), &subscriptions); err != nil {
		return nil, err
	}
	return subscriptions, nil
}
