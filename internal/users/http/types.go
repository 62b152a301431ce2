package http

type approveReq struct {
	AdminNotes string `json:"admin_notes"`
}

type rejectReq struct {
	RejectionReason string `json:"rejection_reason"`
	AdminNotes      string `json:"admin_notes"`
}

type bulkApproveReq struct {
	UserIDs    []string `json:"user_ids"`
	AdminNotes string   `json:"admin_notes"`
}

type createReq struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Location  string `json:"location"`
	Role      string `json:"role"`
}
