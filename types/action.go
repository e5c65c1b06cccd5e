package types

// process actions
const (
	ActionInfo     = "Info"
	ActionBalances = "Balances"

	ActionZoneUpdate         = "Zone-Update"
	ActionZoneAppend         = "Zone-Append"
	ActionZoneUpdatePatchMap = "Zone-Update-Patch-Map"
	ActionRoleSet            = "Role-Set"

	ActionAddCollection          = "Add-Collection"
	ActionAddCollectionToProfile = "Add-Collection-To-Profile"
	ActionGetCollections         = "Get-Collections"
	ActionGetCollectionsByUser   = "Get-Collections-By-User"
	ActionUpdateAssets           = "Update-Assets"
	ActionRunAction              = "Run-Action"

	ActionAddComment           = "Add-Comment"
	ActionGetComments          = "Get-Comments"
	ActionUpdateCommentStatus  = "Update-Comment-Status"
	ActionUpdateCommentContent = "Update-Comment-Content"
	ActionRemoveComment        = "Remove-Comment"
	ActionRemoveOwnComment     = "Remove-Own-Comment"
	ActionPinComment           = "Pin-Comment"
	ActionUnpinComment         = "Unpin-Comment"

	ActionAddModerationEntry           = "Add-Moderation-Entry"
	ActionGetModerationEntries         = "Get-Moderation-Entries"
	ActionUpdateModerationEntry        = "Update-Moderation-Entry"
	ActionRemoveModerationEntry        = "Remove-Moderation-Entry"
	ActionAddModerationSubscription    = "Add-Moderation-Subscription"
	ActionRemoveModerationSubscription = "Remove-Moderation-Subscription"
	ActionGetModerationSubscriptions   = "Get-Moderation-Subscriptions"
)

// message tags of the comments, moderation and collection actions
const (
	TagCommentId        = "Comment-Id"
	TagParentId         = "Parent-Id"
	TagRootId           = "Root-Id"
	TagAssetId          = "Asset-Id"
	TagTargetType       = "Target-Type"
	TagTargetId         = "Target-Id"
	TagTargetContext    = "Target-Context"
	TagReason           = "Reason"
	TagModerator        = "Moderator"
	TagSubscriptionId   = "Subscription-Id"
	TagSubscriptionType = "Subscription-Type"
	TagZoneVersion      = "Zone-Version"
	TagForwardTo        = "ForwardTo"
	TagForwardAction    = "ForwardAction"
	TagActivityProcess  = "Activity-Process"

	// registry tags are not hyphenated
	TagRegistryCollectionId = "CollectionId"
	TagRegistryDateCreated  = "DateCreated"
)
