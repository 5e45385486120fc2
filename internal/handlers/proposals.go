package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"presales-tracker/internal/access"
	"presales-tracker/internal/database"
	"presales-tracker/internal/forms"
	"presales-tracker/internal/models"
	"presales-tracker/internal/session"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListProposals shows the proposals visible to the current user, newest submission first.
func ListProposals(c *gin.Context) {
	var proposals []models.Proposal
	err := access.Scope(database.DB, access.EntityProposal, session.CurrentUser(c)).
		Preload("Project.Customer").
		Preload("CreatedBy").
		Order(models.ProposalOrder).
		Find(&proposals).Error
	if err != nil {
		serverError(c, err, "Failed to load proposals")
		return
	}

	render(c, http.StatusOK, "proposals_list.html", gin.H{
		"proposals": proposals,
		"statuses":  models.Statuses,
	})
}

func ShowNewProposal(c *gin.Context) {
	renderProposalForm(c, http.StatusOK, "/proposals/new", forms.NewProposalForm(), nil)
}

func CreateProposal(c *gin.Context) {
	form, fe := bindProposal(c)
	if !fe.Empty() {
		renderProposalForm(c, http.StatusBadRequest, "/proposals/new", form, fe)
		return
	}

	proposal := models.Proposal{CreatedByID: actorID(c)}
	form.Apply(&proposal)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&proposal).Error; err != nil {
			return err
		}
		database.CreateAuditLog(tx, proposal.CreatedByID, "proposal", proposal.ID, "create",
			fmt.Sprintf("Created proposal for project #%d (%s)", proposal.ProjectID, proposal.Status.Label()))
		return nil
	})
	if err != nil {
		serverError(c, err, "Failed to save proposal")
		return
	}

	redirectWithSuccess(c, "/proposals", "Proposal created")
}

func ShowEditProposal(c *gin.Context) {
	proposal, ok := loadOwnProposal(c)
	if !ok {
		return
	}
	renderProposalForm(c, http.StatusOK, editPath("proposals", proposal.ID), forms.ProposalFormFrom(proposal), nil)
}

func UpdateProposal(c *gin.Context) {
	proposal, ok := loadOwnProposal(c)
	if !ok {
		return
	}

	form, fe := bindProposal(c)
	if !fe.Empty() {
		renderProposalForm(c, http.StatusBadRequest, editPath("proposals", proposal.ID), form, fe)
		return
	}
	previous := proposal.Status
	form.Apply(proposal)

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(proposal).Error; err != nil {
			return err
		}
		details := "Updated proposal"
		if previous != proposal.Status {
			details = fmt.Sprintf("Updated proposal, status %s -> %s", previous.Label(), proposal.Status.Label())
		}
		database.CreateAuditLog(tx, actorID(c), "proposal", proposal.ID, "update", details)
		return nil
	})
	if err != nil {
		serverError(c, err, "Failed to save proposal")
		return
	}

	redirectWithSuccess(c, "/proposals", "Proposal updated")
}

func ShowDeleteProposal(c *gin.Context) {
	proposal, ok := loadOwnProposal(c)
	if !ok {
		return
	}
	renderConfirmDelete(c, "proposal", fmt.Sprintf("proposal #%d", proposal.ID), deletePath("proposals", proposal.ID), "/proposals")
}

func DeleteProposal(c *gin.Context) {
	proposal, ok := loadOwnProposal(c)
	if !ok {
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(proposal).Error; err != nil {
			return err
		}
		database.CreateAuditLog(tx, actorID(c), "proposal", proposal.ID, "delete", fmt.Sprintf("Deleted proposal #%d", proposal.ID))
		return nil
	})
	if err != nil {
		serverError(c, err, "Failed to delete proposal")
		return
	}

	redirectWithSuccess(c, "/proposals", "Proposal deleted")
}

// ChangeProposalStatus switches the status only, recording the transition.
func ChangeProposalStatus(c *gin.Context) {
	proposal, ok := loadOwnProposal(c)
	if !ok {
		return
	}

	var form forms.StatusForm
	if fe := forms.Bind(c, &form); !fe.Empty() {
		redirectWithError(c, "/proposals", "Invalid status")
		return
	}

	next := models.ProposalStatus(form.Status)
	if next == proposal.Status {
		redirectWithError(c, "/proposals", "Proposal already has status "+next.Label())
		return
	}
	previous := proposal.Status

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(proposal).Update("status", next).Error; err != nil {
			return err
		}
		database.CreateAuditLog(tx, actorID(c), "proposal", proposal.ID, "status_change",
			fmt.Sprintf("Status %s -> %s", previous.Label(), next.Label()))
		return nil
	})
	if err != nil {
		serverError(c, err, "Failed to change status")
		return
	}

	redirectWithSuccess(c, "/proposals", "Status changed to "+next.Label())
}

// ShowProposalHistory lists the audit entries of a proposal the user can see.
func ShowProposalHistory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var proposal models.Proposal
	q := access.Scope(database.DB, access.EntityProposal, session.CurrentUser(c)).Preload("Project.Customer")
	if !load(c, q, &proposal, id, "Proposal") {
		return
	}

	var logs []models.AuditLog
	err := database.DB.Preload("User").
		Where("entity = ? AND entity_id = ?", "proposal", proposal.ID).
		Order("created_at desc, id desc").
		Find(&logs).Error
	if err != nil {
		serverError(c, err, "Failed to load history")
		return
	}

	render(c, http.StatusOK, "proposal_history.html", gin.H{
		"proposal": proposal,
		"logs":     logs,
	})
}

// bindProposal validates the form and checks that the chosen project is one
// the user may attach a proposal to.
func bindProposal(c *gin.Context) (forms.ProposalForm, forms.FieldErrors) {
	form, fe := forms.BindProposal(c)
	if _, failed := fe["project"]; !failed && form.ProjectID != 0 {
		var project models.Project
		err := access.Scope(database.DB, access.EntityProject, session.CurrentUser(c)).
			First(&project, form.ProjectID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fe.Add("project", "Select a valid project")
		} else if err != nil {
			fe.Add("project", "Could not check project")
		}
	}
	return form, fe
}

func loadOwnProposal(c *gin.Context) (*models.Proposal, bool) {
	id, ok := paramID(c)
	if !ok {
		return nil, false
	}

	var proposal models.Proposal
	if !load(c, database.DB, &proposal, id, "Proposal") {
		return nil, false
	}
	if !access.CanModify(session.CurrentUser(c), &proposal.CreatedByID) {
		redirectWithError(c, "/proposals", "You can only change proposals you created")
		return nil, false
	}
	return &proposal, true
}

func renderProposalForm(c *gin.Context, status int, action string, form forms.ProposalForm, fe forms.FieldErrors) {
	var projects []models.Project
	err := access.Scope(database.DB, access.EntityProject, session.CurrentUser(c)).
		Preload("Customer").
		Order("project_name asc").
		Find(&projects).Error
	if err != nil {
		serverError(c, err, "Failed to load projects")
		return
	}

	render(c, status, "proposal_form.html", gin.H{
		"form":          form,
		"errors":        fe,
		"projects":      projects,
		"priorities":    models.Priorities,
		"gateways":      models.Gateways,
		"terminalTypes": models.TerminalTypes,
		"statuses":      models.Statuses,
		"action":        action,
		"cancel":        "/proposals",
	})
}
