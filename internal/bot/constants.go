package bot

const (
	sweeperJobTag = "stale_state_sweeper"

	// Telegram rejects media captions longer than this.
	captionLimit = 1024
)

// Callback data is "action" or "action:submissionID[:tagIndex]".
const (
	actionIntakeStart  = "intake_start"
	actionIntakeDone   = "intake_done"
	actionIntakeSubmit = "intake_submit"
	actionIntakeCancel = "intake_cancel"

	actionApprove     = "mod_approve"
	actionPublishNow  = "mod_publish"
	actionPickTags    = "mod_tags"
	actionToggleTag   = "mod_tag"
	actionConfirmTags = "mod_tags_ok"
	actionCancelTags  = "mod_tags_cancel"
	actionBack        = "mod_back"
	actionDeny        = "mod_deny"
)
