package zone

import (
	"context"
	"sort"

	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"

	"github.com/permaweb/permaweb-go/ao"
	"github.com/permaweb/permaweb-go/codec"
	"github.com/permaweb/permaweb-go/types"
	"github.com/permaweb/permaweb-go/utils"
)

var log = logging.Logger("zone")

const (
	// StatePath is the node path serving a zone's state.
	StatePath = "zone"
)

type ZoneConfig struct {
	// source the zone boots from
	Src string
	// version tag attached when a zone is upgraded
	Version string
}

type ZoneSvc struct {
	gateway *ao.Gateway
	cfg     ZoneConfig
}

func NewZoneSvc(gateway *ao.Gateway, cfg ZoneConfig) *ZoneSvc {
	return &ZoneSvc{gateway: gateway, cfg: cfg}
}

func (zs *ZoneSvc) Gateway() *ao.Gateway {
	return zs.gateway
}

// Create spawns a zone booting from the zone source. tags are appended after
// the On-Boot tag; data, when not nil, is sent as the spawn payload.
func (zs *ZoneSvc) Create(ctx context.Context, args types.ZoneCreateArgs, status types.StatusFunc) (string, error) {
	tags := []types.Tag{{Name: types.TagOnBoot, Value: zs.cfg.Src}}
	tags = append(tags, args.Tags...)

	data, err := spawnData(args.Data)
	if err != nil {
		return "", err
	}

	zoneId, err := zs.gateway.CreateProcess(ctx, ao.CreateProcessRequest{Tags: tags, Data: data}, status)
	if err != nil {
		return zoneId, err
	}
	log.Infof("zone created: %s", zoneId)
	return zoneId, nil
}

func spawnData(data interface{}) (string, error) {
	switch d := data.(type) {
	case nil:
		return "", nil
	case string:
		return d, nil
	case []byte:
		return string(d), nil
	}
	encoded, err := utils.MarshalString(data)
	if err != nil {
		return "", types.Wrap(types.ErrInvalidArgs, err)
	}
	return encoded, nil
}

type updateEntry struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// updateEntries lists the top level keys of state ordered by key.
func updateEntries(state map[string]interface{}) []updateEntry {
	keys := make([]string, 0, len(state))
	for key := range state {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	entries := make([]updateEntry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, updateEntry{Key: key, Value: state[key]})
	}
	return entries
}

// Update merges state into the zone store by top level key. A nil value
// removes the key.
func (zs *ZoneSvc) Update(ctx context.Context, state map[string]interface{}, zoneId string) (string, error) {
	if !utils.CheckValidAddress(zoneId) {
		return "", types.Wrapf(types.ErrInvalidArgs, "invalid zone id %q", zoneId)
	}

	messageId, err := zs.gateway.Send(ctx, ao.SendRequest{
		ProcessId: zoneId,
		Action:    types.ActionZoneUpdate,
		Data:      updateEntries(state),
	})
	if err != nil {
		return "", err
	}
	log.Debugf("zone %s updated (%d keys): %s", zoneId, len(state), messageId)
	return messageId, nil
}

// Append adds data to the list stored under path.
func (zs *ZoneSvc) Append(ctx context.Context, path string, data interface{}, zoneId string) (string, error) {
	if path == "" {
		return "", types.Missing("path")
	}
	if !utils.CheckValidAddress(zoneId) {
		return "", types.Wrapf(types.ErrInvalidArgs, "invalid zone id %q", zoneId)
	}

	return zs.gateway.Send(ctx, ao.SendRequest{
		ProcessId: zoneId,
		Action:    types.ActionZoneAppend,
		Tags:      []types.Tag{{Name: types.TagPath, Value: path}},
		Data:      data,
	})
}

type roleEntry struct {
	Id         string
	Roles      []string
	Type       string
	SendInvite bool `json:",omitempty"`
}

func validateRoles(roles []types.ZoneRole, zoneId string) error {
	if !utils.CheckValidAddress(zoneId) {
		return types.Wrapf(types.ErrInvalidArgs, "invalid zone id %q", zoneId)
	}
	if len(roles) == 0 {
		return types.Missing("roles")
	}
	for _, role := range roles {
		if !utils.CheckValidAddress(role.GranteeId) {
			return types.Wrapf(types.ErrInvalidArgs, "invalid grantee id %q", role.GranteeId)
		}
		if role.Type != types.RoleTypeWallet && role.Type != types.RoleTypeProcess {
			return types.Wrapf(types.ErrInvalidArgs, "invalid role type %q for %s, must be %s or %s",
				role.Type, role.GranteeId, types.RoleTypeWallet, types.RoleTypeProcess)
		}
	}
	return nil
}

// SetRoles grants roles on the zone. Malformed entries are rejected before
// anything is sent.
func (zs *ZoneSvc) SetRoles(ctx context.Context, roles []types.ZoneRole, zoneId string) (string, error) {
	if err := validateRoles(roles, zoneId); err != nil {
		return "", err
	}

	entries := make([]roleEntry, 0, len(roles))
	for _, role := range roles {
		entries = append(entries, roleEntry{
			Id:         role.GranteeId,
			Roles:      role.Roles,
			Type:       role.Type,
			SendInvite: role.SendInvite,
		})
	}

	return zs.gateway.Send(ctx, ao.SendRequest{
		ProcessId: zoneId,
		Action:    types.ActionRoleSet,
		Data:      entries,
	})
}

// GetState returns the raw zone state with process keys mapped back to the
// caller's casing.
func (zs *ZoneSvc) GetState(ctx context.Context, zoneId string) (map[string]interface{}, error) {
	if !utils.CheckValidAddress(zoneId) {
		return nil, types.Wrapf(types.ErrInvalidArgs, "invalid zone id %q", zoneId)
	}

	state, err := zs.gateway.Read(ctx, ao.ReadRequest{
		ProcessId:      zoneId,
		Path:           StatePath,
		FallbackAction: ao.ActionInfo,
		Serialize:      true,
	})
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, types.Wrapf(types.ErrNotFound, "zone %s returned no state", zoneId)
	}
	return codec.AsObject(codec.FromProcessCase(state)), nil
}

func (zs *ZoneSvc) Get(ctx context.Context, zoneId string) (*types.Zone, error) {
	state, err := zs.GetState(ctx, zoneId)
	if err != nil {
		return nil, err
	}

	zone := &types.Zone{}
	if err := codec.Decode(state, zone); err != nil {
		return nil, xerrors.Errorf("decoding zone %s: %w", zoneId, err)
	}
	zone.Id = zoneId
	if zone.Store == nil {
		zone.Store = map[string]interface{}{}
	}
	if zone.Assets == nil {
		zone.Assets = []types.ZoneAsset{}
	}
	return zone, nil
}

// UpdatePatchMap asks the zone to republish its state to the node.
func (zs *ZoneSvc) UpdatePatchMap(ctx context.Context, zoneId string) (string, error) {
	if !utils.CheckValidAddress(zoneId) {
		return "", types.Wrapf(types.ErrInvalidArgs, "invalid zone id %q", zoneId)
	}
	return zs.gateway.Send(ctx, ao.SendRequest{ProcessId: zoneId, Action: types.ActionZoneUpdatePatchMap})
}

// UpdateVersion evaluates the current zone source on zoneId and resyncs its
// patch map.
func (zs *ZoneSvc) UpdateVersion(ctx context.Context, zoneId string, status types.StatusFunc) (string, error) {
	if !utils.CheckValidAddress(zoneId) {
		return "", types.Wrapf(types.ErrInvalidArgs, "invalid zone id %q", zoneId)
	}
	if zs.cfg.Src == "" {
		return "", types.Wrapf(types.ErrInvalidConfig, "no zone source configured")
	}

	status.Report("Updating zone version...")
	log.Infof("updating zone %s to version %s", zoneId, zs.cfg.Version)
	if _, err := zs.gateway.Eval(ctx, ao.EvalRequest{
		ProcessId: zoneId,
		SrcTxId:   zs.cfg.Src,
		Tags:      []types.Tag{{Name: types.TagZoneVersion, Value: zs.cfg.Version}},
	}); err != nil {
		return "", err
	}

	status.Report("Syncing zone state...")
	return zs.UpdatePatchMap(ctx, zoneId)
}

// Sync makes the zone store equal to desired by sending only the keys that
// differ. It returns an empty id when the store is already in sync.
func (zs *ZoneSvc) Sync(ctx context.Context, desired map[string]interface{}, zoneId string) (string, error) {
	current, err := zs.Get(ctx, zoneId)
	if err != nil {
		return "", err
	}

	changes, err := DiffStore(current.Store, desired)
	if err != nil {
		return "", err
	}
	if len(changes) == 0 {
		log.Debugf("zone %s already in sync", zoneId)
		return "", nil
	}
	return zs.Update(ctx, changes, zoneId)
}
