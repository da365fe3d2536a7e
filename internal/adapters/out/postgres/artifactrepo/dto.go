// Package artifactrepo provides data transfer objects and mapping functions for artifact persistence.
// Department slots are flattened into prefixed columns of the artifacts table; department data and
// items are stored as jsonb; history rows live in artifact_history ordered by seq.
package artifactrepo

import (
	"encoding/json"
	"time"

	"orderflow/internal/core/domain/model/artifact"
	"orderflow/internal/core/domain/model/department"
	"orderflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// ArtifactDTO represents the database structure for persisting artifact aggregates.
type ArtifactDTO struct {
	ID                    uuid.UUID          `gorm:"type:uuid;primaryKey"`
	CreatedAt             time.Time          `gorm:"type:timestamptz;not null;index;autoCreateTime:false"`
	UpdatedAt             time.Time          `gorm:"type:timestamptz;not null;autoUpdateTime:false"`
	Customer              CustomerDTO        `gorm:"embedded;embeddedPrefix:customer_"`
	Items                 []byte             `gorm:"type:jsonb;not null"`
	Specification         string             `gorm:"type:text"`
	RequestedDeliveryDate *time.Time         `gorm:"type:timestamptz"`
	Priority              string             `gorm:"type:varchar(16);not null"`
	Notes                 string             `gorm:"type:text"`
	Budget                BudgetDTO          `gorm:"embedded;embeddedPrefix:budget_"`
	Commercial            DepartmentStateDTO `gorm:"embedded;embeddedPrefix:commercial_"`
	Admin                 DepartmentStateDTO `gorm:"embedded;embeddedPrefix:admin_"`
	Workshop              DepartmentStateDTO `gorm:"embedded;embeddedPrefix:workshop_"`
	History               []HistoryDTO       `gorm:"foreignKey:ArtifactID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for artifact entities.
func (ArtifactDTO) TableName() string {
	return "artifacts"
}

type CustomerDTO struct {
	Name    string `gorm:"type:varchar(255)"`
	Email   string `gorm:"type:varchar(255)"`
	Phone   string `gorm:"type:varchar(64)"`
	Company string `gorm:"type:varchar(255)"`
	Address string `gorm:"type:text"`
}

type BudgetDTO struct {
	Amount   float64 `gorm:"type:double precision"`
	TaxRate  float64 `gorm:"type:double precision"`
	Discount float64 `gorm:"type:double precision"`
	Total    float64 `gorm:"type:double precision"`
}

// DepartmentStateDTO is one department slot. An empty State means unassigned.
type DepartmentStateDTO struct {
	State     string     `gorm:"type:varchar(32)"`
	ChangedAt *time.Time `gorm:"type:timestamptz"`
	Owner     string     `gorm:"type:varchar(255)"`
	Data      []byte     `gorm:"type:jsonb;not null"`
}

// HistoryDTO is one transition record.
type HistoryDTO struct {
	ArtifactID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq        int       `gorm:"primaryKey;autoIncrement:false"`
	Timestamp  time.Time `gorm:"type:timestamptz;not null"`
	Department string    `gorm:"type:varchar(16);not null"`
	FromState  string    `gorm:"type:varchar(32)"`
	ToState    string    `gorm:"type:varchar(32);not null"`
	Owner      string    `gorm:"type:varchar(255)"`
	Note       string    `gorm:"type:text"`
}

func (HistoryDTO) TableName() string {
	return "artifact_history"
}

// fromDomain converts an artifact to its row. History rows are numbered from 0.
func fromDomain(a *artifact.Artifact) (ArtifactDTO, error) {
	s := a.Snapshot()

	items, err := json.Marshal(s.Items)
	if err != nil {
		return ArtifactDTO{}, err
	}
	if s.Items == nil {
		items = []byte("[]")
	}

	dto := ArtifactDTO{
		ID:                    s.ID.Bytes(),
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
		Items:                 items,
		Specification:         s.Specification,
		RequestedDeliveryDate: s.RequestedDeliveryDate,
		Priority:              string(s.Priority),
		Notes:                 s.Notes,
		Customer: CustomerDTO{
			Name:    s.Customer.Name,
			Email:   s.Customer.Email,
			Phone:   s.Customer.Phone,
			Company: s.Customer.Company,
			Address: s.Customer.Address,
		},
		Budget: BudgetDTO{
			Amount:   s.Budget.Amount,
			TaxRate:  s.Budget.TaxRate,
			Discount: s.Budget.Discount,
			Total:    s.Budget.Total,
		},
		History: historyFromDomain(s.ID, 0, s.History),
	}

	slots := map[department.Department]*DepartmentStateDTO{
		department.Commercial:     &dto.Commercial,
		department.Administrative: &dto.Admin,
		department.Workshop:       &dto.Workshop,
	}
	for d, slot := range slots {
		if *slot, err = slotFromDomain(s.DepartmentStates[d]); err != nil {
			return ArtifactDTO{}, err
		}
	}
	return dto, nil
}

func slotFromDomain(state artifact.DepartmentState) (DepartmentStateDTO, error) {
	data := state.Data
	if data == nil {
		data = artifact.Data{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return DepartmentStateDTO{}, err
	}
	return DepartmentStateDTO{
		State:     string(state.State),
		ChangedAt: state.ChangedAt,
		Owner:     state.Owner,
		Data:      raw,
	}, nil
}

func historyFromDomain(id kernel.UUID, firstSeq int, records []artifact.HistoryRecord) []HistoryDTO {
	rows := make([]HistoryDTO, 0, len(records))
	for i, r := range records {
		rows = append(rows, HistoryDTO{
			ArtifactID: id.Bytes(),
			Seq:        firstSeq + i,
			Timestamp:  r.Timestamp,
			Department: r.Department.String(),
			FromState:  string(r.FromState),
			ToState:    string(r.ToState),
			Owner:      r.Owner,
			Note:       r.Note,
		})
	}
	return rows
}

// toDomain rebuilds the aggregate. Timestamps come back in UTC.
func toDomain(dto ArtifactDTO) (*artifact.Artifact, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var items []string
	if err = json.Unmarshal(dto.Items, &items); err != nil {
		return nil, err
	}

	s := artifact.Snapshot{
		ID:            id,
		CreatedAt:     dto.CreatedAt.UTC(),
		UpdatedAt:     dto.UpdatedAt.UTC(),
		Items:         items,
		Specification: dto.Specification,
		Priority:      artifact.Priority(dto.Priority),
		Notes:         dto.Notes,
		Customer: artifact.Customer{
			Name:    dto.Customer.Name,
			Email:   dto.Customer.Email,
			Phone:   dto.Customer.Phone,
			Company: dto.Customer.Company,
			Address: dto.Customer.Address,
		},
		Budget: artifact.Budget{
			Amount:   dto.Budget.Amount,
			TaxRate:  dto.Budget.TaxRate,
			Discount: dto.Budget.Discount,
			Total:    dto.Budget.Total,
		},
		DepartmentStates: make(map[department.Department]artifact.DepartmentState, 3),
		History:          make([]artifact.HistoryRecord, 0, len(dto.History)),
	}
	if dto.RequestedDeliveryDate != nil {
		at := dto.RequestedDeliveryDate.UTC()
		s.RequestedDeliveryDate = &at
	}

	slots := map[department.Department]DepartmentStateDTO{
		department.Commercial:     dto.Commercial,
		department.Administrative: dto.Admin,
		department.Workshop:       dto.Workshop,
	}
	for d, slot := range slots {
		state, slotErr := slotToDomain(slot)
		if slotErr != nil {
			return nil, slotErr
		}
		s.DepartmentStates[d] = state
	}

	for _, row := range dto.History {
		record, rowErr := historyToDomain(row)
		if rowErr != nil {
			return nil, rowErr
		}
		s.History = append(s.History, record)
	}

	return artifact.Restore(s)
}

func slotToDomain(dto DepartmentStateDTO) (artifact.DepartmentState, error) {
	data := artifact.Data{}
	if len(dto.Data) > 0 {
		if err := json.Unmarshal(dto.Data, &data); err != nil {
			return artifact.DepartmentState{}, err
		}
	}
	state := artifact.DepartmentState{
		State: artifact.State(dto.State),
		Owner: dto.Owner,
		Data:  data,
	}
	if dto.ChangedAt != nil {
		at := dto.ChangedAt.UTC()
		state.ChangedAt = &at
	}
	return state, nil
}

func historyToDomain(dto HistoryDTO) (artifact.HistoryRecord, error) {
	d, err := department.Parse(dto.Department)
	if err != nil {
		return artifact.HistoryRecord{}, err
	}
	return artifact.HistoryRecord{
		Timestamp:  dto.Timestamp.UTC(),
		Department: d,
		FromState:  artifact.State(dto.FromState),
		ToState:    artifact.State(dto.ToState),
		Owner:      dto.Owner,
		Note:       dto.Note,
	}, nil
}
