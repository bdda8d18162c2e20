package types

// FieldName tags a task history entry with the field whose value changed.
// FieldAssignee is its own tag, distinct from the six value fields: an
// assignment change records the previous and new assignee emails.
type FieldName string

const (
	FieldTaskName    FieldName = "name"
	FieldDescription FieldName = "description"
	FieldDueDate     FieldName = "dueDate"
	FieldPriority    FieldName = "priority"
	FieldStatus      FieldName = "status"
	FieldEndDate     FieldName = "endDate"
	FieldAssignee    FieldName = "assignee"
)
