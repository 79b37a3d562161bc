package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"task-tracker.com/task-tracker/internal/constants"
	apperrors "task-tracker.com/task-tracker/internal/errors"
	model "task-tracker.com/task-tracker/internal/models"
	"task-tracker.com/task-tracker/internal/services"
)

// ErrInputClosed is returned by Run when input ends before the user logs out.
var ErrInputClosed = errors.New("console input closed")

type UI struct {
	in     *bufio.Scanner
	out    io.Writer
	errOut io.Writer
	users  *services.UserService
	tasks  *services.TaskService
}

func NewUI(in io.Reader, out, errOut io.Writer, users *services.UserService, tasks *services.TaskService) *UI {
	return &UI{
		in:     bufio.NewScanner(in),
		out:    out,
		errOut: errOut,
		users:  users,
		tasks:  tasks,
	}
}

// Run logs a user in and serves the main menu until they log out.
func (u *UI) Run(ctx context.Context) error {
	u.println("Welcome to the task manager!")

	loginUser, err := u.login(ctx)
	if err != nil {
		return err
	}

	for {
		u.println("Choose one of the options 1 to 3.")
		u.println("1. List tasks, 2. Create task, 3. Log out")
		choice, err := u.prompt("Option: ")
		if err != nil {
			return err
		}
		u.println()

		switch choice {
		case "1":
			err = u.listTasks(ctx, loginUser)
		case "2":
			err = u.createTask(ctx, loginUser)
		case "3":
			u.println("Logged out.")
			return nil
		default:
			u.println("Invalid option. Choose from 1 to 3.")
		}
		if err != nil {
			return err
		}
		u.println()
	}
}

func (u *UI) login(ctx context.Context) (model.User, error) {
	for {
		email, err := u.prompt("Enter your email address: ")
		if err != nil {
			return model.User{}, err
		}
		password, err := u.prompt("Enter your password: ")
		if err != nil {
			return model.User{}, err
		}

		user, err := u.users.Login(ctx, email, password)
		if err != nil {
			u.report(err)
			continue
		}

		u.printf("Logged in as %s.\n\n", user.Name)
		return *user, nil
	}
}

func (u *UI) listTasks(ctx context.Context, loginUser model.User) error {
	listings, err := u.tasks.ShowAll(ctx, loginUser)
	if err != nil {
		u.report(err)
		return nil
	}
	if len(listings) == 0 {
		u.println("No tasks yet.")
	}
	for _, l := range listings {
		u.printf("%d. Task: %s, Assignee: %s, Status: %s\n", l.Index, l.Name, l.Assignee, l.StatusLabel)
	}
	u.println()

	return u.subMenu(ctx, loginUser)
}

func (u *UI) subMenu(ctx context.Context, loginUser model.User) error {
	for {
		u.println("Choose one of the options 1 to 3.")
		u.println("1. Change task status, 2. Delete task, 3. Back to main menu")
		choice, err := u.prompt("Option: ")
		if err != nil {
			return err
		}
		u.println()

		switch choice {
		case "1":
			err = u.changeStatus(ctx, loginUser)
		case "2":
			err = u.deleteTask(ctx)
		case "3":
			return nil
		default:
			u.println("Invalid option. Choose from 1 to 3.")
			u.println()
		}
		if err != nil {
			return err
		}
	}
}

func (u *UI) createTask(ctx context.Context, loginUser model.User) error {
	for {
		codeInput, err := u.prompt("Enter the task code: ")
		if err != nil {
			return err
		}
		if !isNumeric(codeInput) {
			u.println("Enter the code as a number.")
			u.println()
			continue
		}
		code, _ := strconv.Atoi(codeInput)

		name, err := u.prompt("Enter the task name: ")
		if err != nil {
			return err
		}
		if !validTaskName(name) {
			u.printf("Enter a task name of %d characters or fewer.\n\n", maxTaskNameLength)
			continue
		}

		repUserInput, err := u.prompt("Enter the code of the assigned user: ")
		if err != nil {
			return err
		}
		if !isNumeric(repUserInput) {
			u.println("Enter the user code as a number.")
			u.println()
			continue
		}
		repUserCode, _ := strconv.Atoi(repUserInput)

		if _, err := u.tasks.Save(ctx, code, name, repUserCode, loginUser); err != nil {
			u.report(err)
			continue
		}

		u.printf("%s has been registered.\n", name)
		return nil
	}
}

func (u *UI) changeStatus(ctx context.Context, loginUser model.User) error {
	for {
		codeInput, err := u.prompt("Enter the code of the task to update: ")
		if err != nil {
			return err
		}
		if !isNumeric(codeInput) {
			u.println("Enter the task code as a number.")
			u.println()
			continue
		}
		code, _ := strconv.Atoi(codeInput)

		u.println("Choose the new status from 1 or 2.")
		u.println("1. In progress, 2. Done")
		statusInput, err := u.prompt("Option: ")
		if err != nil {
			return err
		}
		if !validTargetStatus(statusInput) {
			u.println("Choose the status from 1 or 2.")
			u.println()
			continue
		}
		status, _ := strconv.Atoi(statusInput)

		task, err := u.tasks.ChangeStatus(ctx, code, constants.TaskStatus(status), loginUser)
		if err != nil {
			u.report(err)
			continue
		}

		u.printf("The status of %s is now %s.\n\n", task.Name, task.Status.Label())
		return nil
	}
}

func (u *UI) deleteTask(ctx context.Context) error {
	for {
		codeInput, err := u.prompt("Enter the code of the task to delete: ")
		if err != nil {
			return err
		}
		if !isNumeric(codeInput) {
			u.println("Enter the task code as a number.")
			u.println()
			continue
		}
		code, _ := strconv.Atoi(codeInput)

		if err := u.tasks.Delete(ctx, code); err != nil {
			u.report(err)
			return nil
		}

		u.printf("Task %d has been deleted.\n\n", code)
		return nil
	}
}

func (u *UI) prompt(label string) (string, error) {
	fmt.Fprint(u.out, label)
	if !u.in.Scan() {
		if err := u.in.Err(); err != nil {
			return "", err
		}
		return "", ErrInputClosed
	}
	return strings.TrimRight(u.in.Text(), "\r"), nil
}

// report shows domain errors to the user and I/O faults on the error stream.
func (u *UI) report(err error) {
	if apperrors.IsDomain(err) {
		u.printf("%s\n\n", err.Error())
		return
	}
	fmt.Fprintf(u.errOut, "error: %v\n", err)
	u.println()
}

func (u *UI) println(a ...any) {
	fmt.Fprintln(u.out, a...)
}

func (u *UI) printf(format string, a ...any) {
	fmt.Fprintf(u.out, format, a...)
}
