package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/hr-records-service/internal/domain"
	"github.com/spec-kit/hr-records-service/internal/repository/memory"
	"github.com/spec-kit/hr-records-service/internal/service"
	"github.com/spec-kit/hr-records-service/internal/storage"
)

type employeeFixture struct {
	svc   *service.EmployeeService
	tags  *memory.TagRepository
	depts *memory.DepartmentRepository
}

func newEmployeeFixture(t *testing.T) *employeeFixture {
	t.Helper()
	tags := memory.NewTagRepository()
	depts := memory.NewDepartmentRepository()
	employees := memory.NewEmployeeRepository(tags, depts)
	svc := service.NewEmployeeService(service.EmployeeDependencies{
		EmployeeRepo:   employees,
		TagRepo:        tags,
		DepartmentRepo: depts,
		ImageStore:     storage.NewImageStore(t.TempDir()),
	})
	return &employeeFixture{svc: svc, tags: tags, depts: depts}
}

func (f *employeeFixture) addTag(t *testing.T, ownerID, name string) string {
	t.Helper()
	tag := &domain.Tag{UserID: ownerID, Name: name}
	require.NoError(t, f.tags.Create(context.Background(), tag))
	return tag.ID
}

func (f *employeeFixture) addDepartment(t *testing.T, ownerID, name string) string {
	t.Helper()
	dept := &domain.Department{UserID: ownerID, Name: name}
	require.NoError(t, f.depts.Create(context.Background(), dept))
	return dept.ID
}

func sampleInput() service.EmployeeCreateInput {
	return service.EmployeeCreateInput{
		Title:      "Sample employee",
		Experience: 10,
		Salary:     "5.00",
	}
}

func TestCreateEmployeeWithTags(t *testing.T) {
	f := newEmployeeFixture(t)
	t1 := f.addTag(t, "owner-1", "Senior")
	t2 := f.addTag(t, "owner-1", "Remote")

	input := sampleInput()
	input.TagIDs = []string{t1, t2}
	created, err := f.svc.Create(context.Background(), "owner-1", input)
	require.NoError(t, err)

	detail, err := f.svc.Get(context.Background(), "owner-1", created.ID)
	require.NoError(t, err)
	require.Len(t, detail.Tags, 2)
	names := []string{detail.Tags[0].Name, detail.Tags[1].Name}
	assert.ElementsMatch(t, []string{"Senior", "Remote"}, names)
}

func TestCreateEmployeeUnknownTagRejected(t *testing.T) {
	f := newEmployeeFixture(t)

	input := sampleInput()
	input.TagIDs = []string{"no-such-tag"}
	_, err := f.svc.Create(context.Background(), "owner-1", input)
	de := domainError(t, err)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Contains(t, de.Details, "tags")
}

func TestCreateEmployeeForeignTagRejected(t *testing.T) {
	f := newEmployeeFixture(t)
	foreign := f.addTag(t, "owner-2", "Poached")

	input := sampleInput()
	input.TagIDs = []string{foreign}
	_, err := f.svc.Create(context.Background(), "owner-1", input)
	de := domainError(t, err)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
}

func TestCreateEmployeeInvalidSalary(t *testing.T) {
	f := newEmployeeFixture(t)

	for _, salary := range []string{"123456", "1000.00", "5.123", "abc", ""} {
		input := sampleInput()
		input.Salary = salary
		_, err := f.svc.Create(context.Background(), "owner-1", input)
		de := domainError(t, err)
		assert.Equal(t, http.StatusBadRequest, de.HTTPStatus, "salary %q", salary)
	}
}

func TestListScopedToOwner(t *testing.T) {
	f := newEmployeeFixture(t)

	_, err := f.svc.Create(context.Background(), "owner-1", sampleInput())
	require.NoError(t, err)
	_, err = f.svc.Create(context.Background(), "owner-2", sampleInput())
	require.NoError(t, err)

	employees, err := f.svc.List(context.Background(), "owner-1")
	require.NoError(t, err)
	assert.Len(t, employees, 1)
}

func TestGetNotOwnedIsNotFound(t *testing.T) {
	f := newEmployeeFixture(t)

	created, err := f.svc.Create(context.Background(), "owner-2", sampleInput())
	require.NoError(t, err)

	_, err = f.svc.Get(context.Background(), "owner-1", created.ID)
	de := domainError(t, err)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
}

func TestFullUpdateClearsOmittedTags(t *testing.T) {
	f := newEmployeeFixture(t)
	tagID := f.addTag(t, "owner-1", "Senior")

	input := sampleInput()
	input.TagIDs = []string{tagID}
	created, err := f.svc.Create(context.Background(), "owner-1", input)
	require.NoError(t, err)

	replacement := service.EmployeeCreateInput{
		Title:      "Updated title",
		Experience: 3,
		Salary:     "7.50",
	}
	updated, err := f.svc.FullUpdate(context.Background(), "owner-1", created.ID, replacement)
	require.NoError(t, err)
	assert.Equal(t, "Updated title", updated.Title)
	assert.Empty(t, updated.Tags)
	assert.Empty(t, updated.TagIDs)
}

func TestPartialUpdateReplacesTagSet(t *testing.T) {
	f := newEmployeeFixture(t)
	t1 := f.addTag(t, "owner-1", "Senior")
	t2 := f.addTag(t, "owner-1", "Remote")
	t3 := f.addTag(t, "owner-1", "Lead")

	input := sampleInput()
	input.TagIDs = []string{t1, t2}
	created, err := f.svc.Create(context.Background(), "owner-1", input)
	require.NoError(t, err)

	newTags := []string{t3}
	updated, err := f.svc.PartialUpdate(context.Background(), "owner-1", created.ID, service.EmployeeUpdateInput{
		TagIDs: &newTags,
	})
	require.NoError(t, err)
	require.Len(t, updated.Tags, 1)
	assert.Equal(t, "Lead", updated.Tags[0].Name)
	assert.Equal(t, "Sample employee", updated.Title)
	assert.Equal(t, "5.00", updated.Salary)
}

func TestPartialUpdateLeavesRelationsWhenAbsent(t *testing.T) {
	f := newEmployeeFixture(t)
	tagID := f.addTag(t, "owner-1", "Senior")
	deptID := f.addDepartment(t, "owner-1", "Engineering")

	input := sampleInput()
	input.TagIDs = []string{tagID}
	input.DepartmentIDs = []string{deptID}
	created, err := f.svc.Create(context.Background(), "owner-1", input)
	require.NoError(t, err)

	newTitle := "Retitled"
	updated, err := f.svc.PartialUpdate(context.Background(), "owner-1", created.ID, service.EmployeeUpdateInput{
		Title: &newTitle,
	})
	require.NoError(t, err)
	assert.Equal(t, "Retitled", updated.Title)
	assert.Len(t, updated.Tags, 1)
	assert.Len(t, updated.Departments, 1)
}

func TestDeleteNotOwnedIsNotFound(t *testing.T) {
	f := newEmployeeFixture(t)

	created, err := f.svc.Create(context.Background(), "owner-2", sampleInput())
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), "owner-1", created.ID)
	de := domainError(t, err)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)

	_, err = f.svc.Get(context.Background(), "owner-2", created.ID)
	assert.NoError(t, err)
}

func TestAttachImageInvalidPayloadLeavesRecord(t *testing.T) {
	f := newEmployeeFixture(t)

	created, err := f.svc.Create(context.Background(), "owner-1", sampleInput())
	require.NoError(t, err)

	_, err = f.svc.AttachImage(context.Background(), "owner-1", created.ID, "notimage.jpg", []byte("notimage"))
	de := domainError(t, err)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)

	stored, err := f.svc.Get(context.Background(), "owner-1", created.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ImagePath)
}
