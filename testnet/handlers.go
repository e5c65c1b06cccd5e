package testnet

import (
	"strings"

	"golang.org/x/xerrors"

	"github.com/permaweb/permaweb-go/ao"
	"github.com/permaweb/permaweb-go/types"
	"github.com/permaweb/permaweb-go/utils"
)

func tagOf(msg ao.Message, name string) string {
	v, _ := types.GetTagValue(msg.Tags, name)
	return v
}

// read answers the read-only actions. It reports false for any other action.
func (r *Runtime) read(p *Process, from string, msg ao.Message) (ao.Message, bool) {
	switch tagOf(msg, types.TagAction) {
	case types.ActionInfo:
		return jsonReply(from, p.info()), true
	case types.ActionBalances:
		return jsonReply(from, p.Balances), true
	case types.ActionGetComments:
		return jsonReply(from, p.listComments(tagOf(msg, types.TagParentId), tagOf(msg, types.TagRootId))), true
	case types.ActionGetModerationEntries:
		return jsonReply(from, p.listModeration(msg)), true
	case types.ActionGetModerationSubscriptions:
		return jsonReply(from, p.subscriptionList()), true
	case types.ActionGetCollections:
		return jsonReply(from, map[string]interface{}{"Collections": p.listCollections("")}), true
	case types.ActionGetCollectionsByUser:
		return jsonReply(from, map[string]interface{}{"Collections": p.listCollections(tagOf(msg, types.TagCreator))}), true
	}
	return ao.Message{}, false
}

func (p *Process) info() map[string]interface{} {
	boot := types.TagBootloader + "-"
	switch p.Kind {
	case KindZone:
		return map[string]interface{}{
			"Store":   p.Store,
			"Assets":  p.Assets,
			"Roles":   p.Roles,
			"Version": p.Version,
			"Owner":   p.Owner,
		}
	case KindAsset:
		info := map[string]interface{}{
			"Name":         p.tag(boot + "Name"),
			"Ticker":       p.tag(boot + "Ticker"),
			"Denomination": p.tag(boot + "Denomination"),
			"TotalSupply":  p.tag(boot + "TotalSupply"),
			"Transferable": p.tag(boot+"Transferable") != "false",
			"Creator":      p.tag(boot + "Creator"),
			"Balances":     p.Balances,
		}
		if raw := p.tag(boot + "Metadata"); raw != "" {
			var metadata map[string]interface{}
			if err := utils.Unmarshal([]byte(raw), &metadata); err == nil {
				info["AssetMetadata"] = metadata
			}
		}
		return info
	case KindCollection:
		info := map[string]interface{}{
			"Name":        p.tag(types.TagTitle),
			"Description": p.tag(types.TagDescription),
			"Creator":     p.tag(types.TagCreator),
			"DateCreated": p.tag(types.TagDateCreated),
			"Assets":      append([]string{}, p.AssetIds...),
		}
		for _, name := range []string{types.TagThumbnail, types.TagBanner} {
			if v := p.tag(name); v != "" {
				info[name] = v
			}
		}
		if v := p.tag(types.TagActivityProcess); v != "" {
			info["ActivityProcess"] = v
		}
		return info
	}
	return map[string]interface{}{
		"Name":  p.tag(types.TagName),
		"Owner": p.Owner,
	}
}

// write applies a state changing action. Unknown actions are accepted and
// only recorded in the inbox.
func (r *Runtime) write(p *Process, from string, action string, msg ao.Message) error {
	switch action {
	case types.ActionZoneUpdate:
		var entries []struct {
			Key   string      `json:"key"`
			Value interface{} `json:"value"`
		}
		if err := utils.Unmarshal([]byte(msg.Data), &entries); err != nil {
			return xerrors.Errorf("zone update data: %w", err)
		}
		for _, e := range entries {
			if e.Value == nil {
				delete(p.Store, e.Key)
				continue
			}
			p.Store[e.Key] = e.Value
		}
	case types.ActionZoneAppend:
		path := tagOf(msg, types.TagPath)
		if path == "" {
			return xerrors.New("path is required")
		}
		var value interface{}
		if err := utils.Unmarshal([]byte(msg.Data), &value); err != nil {
			return xerrors.Errorf("zone append data: %w", err)
		}
		list, _ := p.Store[path].([]interface{})
		p.Store[path] = append(list, value)
	case types.ActionZoneUpdatePatchMap:
		p.PatchMapUpdates++
	case types.ActionRoleSet:
		var entries []struct {
			Id    string
			Roles []string
			Type  string
		}
		if err := utils.Unmarshal([]byte(msg.Data), &entries); err != nil {
			return xerrors.Errorf("role set data: %w", err)
		}
		for _, e := range entries {
			roles := make([]interface{}, 0, len(e.Roles))
			for _, role := range e.Roles {
				roles = append(roles, role)
			}
			p.Roles[e.Id] = map[string]interface{}{"Roles": roles, "Type": e.Type}
		}
	case ao.ActionEval:
		p.Evals = append(p.Evals, string(msg.Data))
		if v := tagOf(msg, types.TagZoneVersion); v != "" {
			p.Version = v
		}
	case types.ActionAddCollection:
		p.collections = append(p.collections, map[string]interface{}{
			"Id":          tagOf(msg, types.TagRegistryCollectionId),
			"Name":        tagOf(msg, types.TagName),
			"Creator":     tagOf(msg, types.TagCreator),
			"DateCreated": tagOf(msg, types.TagRegistryDateCreated),
			"Banner":      tagOf(msg, types.TagBanner),
			"Thumbnail":   tagOf(msg, types.TagThumbnail),
		})
	case types.ActionUpdateAssets:
		return p.updateAssets(msg)
	case types.ActionRunAction:
		return r.forward(p, msg)
	case types.ActionAddComment:
		return p.addComment(from, msg, r.millis())
	case types.ActionUpdateCommentStatus, types.ActionUpdateCommentContent, types.ActionRemoveComment,
		types.ActionRemoveOwnComment, types.ActionPinComment, types.ActionUnpinComment:
		return p.updateComment(from, action, msg)
	case types.ActionAddModerationEntry:
		return p.addModeration(from, msg, r.millis())
	case types.ActionUpdateModerationEntry, types.ActionRemoveModerationEntry:
		return p.updateModeration(action, msg)
	case types.ActionAddModerationSubscription:
		p.subscriptions = append(p.subscriptions, map[string]interface{}{
			"Id":        tagOf(msg, types.TagSubscriptionId),
			"Type":      tagOf(msg, types.TagSubscriptionType),
			"DateAdded": r.millis(),
		})
	case types.ActionRemoveModerationSubscription:
		id := tagOf(msg, types.TagSubscriptionId)
		kept := p.subscriptions[:0]
		for _, s := range p.subscriptions {
			if s["Id"] != id {
				kept = append(kept, s)
			}
		}
		p.subscriptions = kept
	}
	return nil
}

func (p *Process) updateAssets(msg ao.Message) error {
	var input struct {
		AssetIds   []string
		UpdateType string
	}
	if err := utils.Unmarshal([]byte(msg.Data), &input); err != nil {
		return xerrors.Errorf("update assets input: %w", err)
	}
	switch input.UpdateType {
	case types.CollectionUpdateAdd:
		for _, id := range input.AssetIds {
			if !contains(p.AssetIds, id) {
				p.AssetIds = append(p.AssetIds, id)
			}
		}
	case types.CollectionUpdateRemove:
		kept := p.AssetIds[:0]
		for _, id := range p.AssetIds {
			if !contains(input.AssetIds, id) {
				kept = append(kept, id)
			}
		}
		p.AssetIds = kept
	default:
		return xerrors.Errorf("unknown update type %q", input.UpdateType)
	}
	return nil
}

// forward delivers the action wrapped in a Run-Action message to its target,
// sent on behalf of p.
func (r *Runtime) forward(p *Process, msg ao.Message) error {
	var run struct {
		Target string
		Action string
		Input  string
	}
	if err := utils.Unmarshal([]byte(msg.Data), &run); err != nil {
		return xerrors.Errorf("run action data: %w", err)
	}
	target, ok := r.processes[run.Target]
	if !ok {
		return xerrors.Errorf("%s: %w", run.Target, ErrUnknownProcess)
	}

	forwarded := ao.Message{
		Target: run.Target,
		Tags:   []types.Tag{{Name: types.TagAction, Value: run.Action}},
		Data:   ao.MessageData(run.Input),
	}
	out := r.deliver(target, p.Id, forwarded)
	target.outputs = append(target.outputs, output{messageId: RandomId(), out: out})
	return nil
}

func (p *Process) findComment(id string) *commentRow {
	for _, c := range p.comments {
		if c.Id == id && !c.removed {
			return c
		}
	}
	return nil
}

func (p *Process) addComment(from string, msg ao.Message, now int64) error {
	id := tagOf(msg, types.TagCommentId)
	if id == "" {
		return xerrors.New("comment id is required")
	}
	if p.findComment(id) != nil {
		return xerrors.Errorf("comment %s exists", id)
	}

	row := &commentRow{
		Id:          id,
		Content:     string(msg.Data),
		Creator:     from,
		ParentId:    tagOf(msg, types.TagParentId),
		RootId:      tagOf(msg, types.TagRootId),
		Status:      types.CommentStatusActive,
		DateCreated: now,
	}
	if parent := p.findComment(row.ParentId); parent != nil {
		row.Depth = parent.Depth + 1
	}
	p.comments = append(p.comments, row)
	return nil
}

func (p *Process) updateComment(from string, action string, msg ao.Message) error {
	row := p.findComment(tagOf(msg, types.TagCommentId))
	if row == nil {
		return xerrors.New("comment not found")
	}

	switch action {
	case types.ActionUpdateCommentStatus:
		status := tagOf(msg, types.TagStatus)
		if status != types.CommentStatusActive && status != types.CommentStatusInactive {
			return xerrors.Errorf("invalid status %q", status)
		}
		row.Status = status
	case types.ActionUpdateCommentContent:
		if row.Creator != from {
			return xerrors.New("only the creator can edit a comment")
		}
		row.Content = string(msg.Data)
	case types.ActionRemoveComment:
		row.removed = true
	case types.ActionRemoveOwnComment:
		if row.Creator != from {
			return xerrors.New("only the creator can remove a comment")
		}
		row.removed = true
	case types.ActionPinComment:
		row.Pinned = true
	case types.ActionUnpinComment:
		row.Pinned = false
	}
	return nil
}

func (p *Process) listComments(parentId string, rootId string) []map[string]interface{} {
	out := []map[string]interface{}{}
	for _, c := range p.comments {
		if c.removed {
			continue
		}
		if parentId != "" && c.ParentId != parentId {
			continue
		}
		if rootId != "" && c.RootId != rootId {
			continue
		}
		out = append(out, map[string]interface{}{
			"Id":          c.Id,
			"Content":     c.Content,
			"Creator":     c.Creator,
			"ParentId":    c.ParentId,
			"RootId":      c.RootId,
			"Status":      c.Status,
			"Pinned":      c.Pinned,
			"DateCreated": c.DateCreated,
			"Depth":       c.Depth,
		})
	}
	return out
}

var moderationFilterTags = map[string]string{
	types.TagTargetType:    "TargetType",
	types.TagTargetId:      "TargetId",
	types.TagTargetContext: "TargetContext",
	types.TagStatus:        "Status",
	types.TagModerator:     "Moderator",
}

func (p *Process) addModeration(from string, msg ao.Message, now int64) error {
	entry := map[string]interface{}{
		"TargetType":  tagOf(msg, types.TagTargetType),
		"TargetId":    tagOf(msg, types.TagTargetId),
		"Status":      tagOf(msg, types.TagStatus),
		"Moderator":   from,
		"DateCreated": now,
	}
	if entry["TargetType"] == "" || entry["TargetId"] == "" || entry["Status"] == "" {
		return xerrors.New("target type, target id and status are required")
	}
	if v := tagOf(msg, types.TagTargetContext); v != "" {
		entry["TargetContext"] = v
	}
	if v := tagOf(msg, types.TagReason); v != "" {
		entry["Reason"] = v
	}
	if data := strings.TrimSpace(string(msg.Data)); data != "" {
		var metadata map[string]interface{}
		if err := utils.Unmarshal([]byte(data), &metadata); err != nil {
			return xerrors.Errorf("moderation metadata: %w", err)
		}
		entry["Metadata"] = metadata
	}
	p.moderation = append(p.moderation, entry)
	return nil
}

func (p *Process) updateModeration(action string, msg ao.Message) error {
	targetType, targetId := tagOf(msg, types.TagTargetType), tagOf(msg, types.TagTargetId)
	for i, entry := range p.moderation {
		if entry["TargetType"] != targetType || entry["TargetId"] != targetId {
			continue
		}
		if action == types.ActionRemoveModerationEntry {
			p.moderation = append(p.moderation[:i], p.moderation[i+1:]...)
			return nil
		}
		if v := tagOf(msg, types.TagStatus); v != "" {
			entry["Status"] = v
		}
		if v := tagOf(msg, types.TagReason); v != "" {
			entry["Reason"] = v
		}
		return nil
	}
	return xerrors.New("moderation entry not found")
}

func (p *Process) listModeration(msg ao.Message) []map[string]interface{} {
	out := []map[string]interface{}{}
	for _, entry := range p.moderation {
		keep := true
		for tagName, field := range moderationFilterTags {
			if v := tagOf(msg, tagName); v != "" && entry[field] != v {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, entry)
		}
	}
	return out
}

func (p *Process) subscriptionList() []map[string]interface{} {
	return append([]map[string]interface{}{}, p.subscriptions...)
}

func (p *Process) listCollections(creator string) []map[string]interface{} {
	out := []map[string]interface{}{}
	for _, c := range p.collections {
		if creator != "" && c["Creator"] != creator {
			continue
		}
		out = append(out, c)
	}
	return out
}
