package comment

import (
	"context"
	"strings"

	"github.com/permaweb/permaweb-go/ao"
	"github.com/permaweb/permaweb-go/codec"
	"github.com/permaweb/permaweb-go/types"
	"github.com/permaweb/permaweb-go/utils"
)

func checkCommentsId(commentsId string) error {
	if !utils.CheckValidAddress(commentsId) {
		return types.Wrapf(types.ErrInvalidArgs, "invalid comments process id %q", commentsId)
	}
	return nil
}

func commentTag(commentId string) (types.Tag, error) {
	if commentId == "" {
		return types.Tag{}, types.Missing("commentId")
	}
	return types.Tag{Name: types.TagCommentId, Value: commentId}, nil
}

// AddComment adds a comment to a comments process and returns the generated
// comment id.
func (cs *CommentSvc) AddComment(ctx context.Context, args types.ProcessCommentArgs) (string, error) {
	if err := checkCommentsId(args.CommentsId); err != nil {
		return "", err
	}
	if strings.TrimSpace(args.Content) == "" {
		return "", types.Missing("content")
	}

	commentId := utils.GenerateCommentId()
	tags := []types.Tag{{Name: types.TagCommentId, Value: commentId}}
	if args.ParentId != "" {
		tags = append(tags, types.Tag{Name: types.TagParentId, Value: args.ParentId})
	}
	if args.RootId != "" {
		tags = append(tags, types.Tag{Name: types.TagRootId, Value: args.RootId})
	}

	if _, err := cs.gateway.SendAndConfirm(ctx, ao.SendRequest{
		ProcessId:  args.CommentsId,
		Action:     types.ActionAddComment,
		Tags:       tags,
		Data:       args.Content,
		UseRawData: true,
	}); err != nil {
		return "", err
	}
	return commentId, nil
}

// GetProcessComments reads the comments of a comments process, optionally
// narrowed to one parent or root.
func (cs *CommentSvc) GetProcessComments(ctx context.Context, filter types.CommentFilter) ([]types.Comment, error) {
	if err := checkCommentsId(filter.CommentsId); err != nil {
		return nil, err
	}

	var tags []types.Tag
	if filter.ParentId != "" {
		tags = append(tags, types.Tag{Name: types.TagParentId, Value: filter.ParentId})
	}
	if filter.RootId != "" {
		tags = append(tags, types.Tag{Name: types.TagRootId, Value: filter.RootId})
	}

	result, err := cs.gateway.DryRun(ctx, ao.DryRunRequest{
		ProcessId: filter.CommentsId,
		Action:    types.ActionGetComments,
		Tags:      tags,
	})
	if err != nil {
		return nil, err
	}

	comments := []types.Comment{}
	if result == nil {
		return comments, nil
	}
	if err := codec.Decode(codec.FromProcessCase(result), &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (cs *CommentSvc) send(ctx context.Context, commentsId string, action string, tags []types.Tag, data interface{}) (string, error) {
	if err := checkCommentsId(commentsId); err != nil {
		return "", err
	}
	return cs.gateway.SendAndConfirm(ctx, ao.SendRequest{
		ProcessId:  commentsId,
		Action:     action,
		Tags:       tags,
		Data:       data,
		UseRawData: data != nil,
	})
}

// UpdateStatus marks a comment active or inactive.
func (cs *CommentSvc) UpdateStatus(ctx context.Context, commentsId string, commentId string, status string) (string, error) {
	if status != types.CommentStatusActive && status != types.CommentStatusInactive {
		return "", types.Wrapf(types.ErrInvalidArgs, "status must be %s or %s", types.CommentStatusActive, types.CommentStatusInactive)
	}
	tag, err := commentTag(commentId)
	if err != nil {
		return "", err
	}
	return cs.send(ctx, commentsId, types.ActionUpdateCommentStatus, []types.Tag{tag, {Name: types.TagStatus, Value: status}}, nil)
}

// UpdateContent replaces the content of a comment. Only its creator may do
// so.
func (cs *CommentSvc) UpdateContent(ctx context.Context, commentsId string, commentId string, content string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", types.Missing("content")
	}
	tag, err := commentTag(commentId)
	if err != nil {
		return "", err
	}
	return cs.send(ctx, commentsId, types.ActionUpdateCommentContent, []types.Tag{tag}, content)
}

// Remove deletes any comment, as a moderator.
func (cs *CommentSvc) Remove(ctx context.Context, commentsId string, commentId string) (string, error) {
	tag, err := commentTag(commentId)
	if err != nil {
		return "", err
	}
	return cs.send(ctx, commentsId, types.ActionRemoveComment, []types.Tag{tag}, nil)
}

// RemoveOwn deletes a comment written by the signer.
func (cs *CommentSvc) RemoveOwn(ctx context.Context, commentsId string, commentId string) (string, error) {
	tag, err := commentTag(commentId)
	if err != nil {
		return "", err
	}
	return cs.send(ctx, commentsId, types.ActionRemoveOwnComment, []types.Tag{tag}, nil)
}

func (cs *CommentSvc) Pin(ctx context.Context, commentsId string, commentId string) (string, error) {
	tag, err := commentTag(commentId)
	if err != nil {
		return "", err
	}
	return cs.send(ctx, commentsId, types.ActionPinComment, []types.Tag{tag}, nil)
}

func (cs *CommentSvc) Unpin(ctx context.Context, commentsId string, commentId string) (string, error) {
	tag, err := commentTag(commentId)
	if err != nil {
		return "", err
	}
	return cs.send(ctx, commentsId, types.ActionUnpinComment, []types.Tag{tag}, nil)
}
