package lifecycle

import "strings"

type AssignRequest struct {
	// View decides the target date and the source tag. Empty means the session view.
	View             string `json:"view"`
	Technician       string `json:"technician" validate:"required"`
	Engineer         string `json:"engineer"`
	Area             string `json:"area" validate:"required"`
	Loop             string `json:"loop" validate:"required"`
	Tag              string `json:"tag" validate:"required"`
	TypeOfInstrument string `json:"typeOfInstrument" validate:"required"`
	JobType          string `json:"jobType" validate:"required"`
	Description      string `json:"description" validate:"required"`
	Shift            string `json:"shift"`
	Priority         int    `json:"priority" validate:"gte=0,lte=25"`
	Emergency        bool   `json:"emergency"`
}

func (r *AssignRequest) trim() {
	trimAll(&r.View, &r.Technician, &r.Engineer, &r.Area, &r.Loop, &r.Tag,
		&r.TypeOfInstrument, &r.JobType, &r.Description, &r.Shift)
}

// WriteRequest is the technician's write-up of an assigned job.
type WriteRequest struct {
	Description    string  `json:"description" validate:"required"`
	Status         string  `json:"status"`
	Technician     string  `json:"technician"`
	Engineer       string  `json:"engineer"`
	Area           string  `json:"area"`
	Emergency      bool    `json:"emergency"`
	ExtraDutyHours float64 `json:"extraDutyHours"`
	Shift          string  `json:"shift"`
	JobType        string  `json:"jobType"`
}

func (r *WriteRequest) trim() {
	trimAll(&r.Description, &r.Status, &r.Technician, &r.Engineer, &r.Area, &r.Shift, &r.JobType)
}

// TechnicianAddRequest records a job the technician did without an assignment.
type TechnicianAddRequest struct {
	TargetDate       string  `json:"targetDate" validate:"omitempty,datetime=2006-01-02"`
	Technician       string  `json:"technician" validate:"required"`
	Engineer         string  `json:"engineer"`
	Area             string  `json:"area" validate:"required"`
	Loop             string  `json:"loop" validate:"required"`
	Tag              string  `json:"tag" validate:"required"`
	TypeOfInstrument string  `json:"typeOfInstrument" validate:"required"`
	JobType          string  `json:"jobType" validate:"required"`
	Description      string  `json:"description" validate:"required"`
	Status           string  `json:"status"`
	Shift            string  `json:"shift"`
	Emergency        bool    `json:"emergency"`
	ExtraDutyHours   float64 `json:"extraDutyHours"`
}

func (r *TechnicianAddRequest) trim() {
	trimAll(&r.TargetDate, &r.Technician, &r.Engineer, &r.Area, &r.Loop, &r.Tag,
		&r.TypeOfInstrument, &r.JobType, &r.Description, &r.Status, &r.Shift)
}

type RemarkRequest struct {
	Text   string `json:"text" validate:"required"`
	Type   string `json:"type" validate:"omitempty,oneof=engineer executive"`
	Author string `json:"author"`
	// AckTech and AckEng ask the role to confirm it read the remark.
	AckTech bool `json:"ackTech"`
	AckEng  bool `json:"ackEng"`
	// MarkOver closes the job together with the remark.
	MarkOver bool `json:"markOver"`
}

func (r *RemarkRequest) trim() {
	trimAll(&r.Text, &r.Type, &r.Author)
}

type AckTarget struct {
	JobID    string `json:"jobId" validate:"required"`
	RemarkID string `json:"remarkId" validate:"required"`
}

func trimAll(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
