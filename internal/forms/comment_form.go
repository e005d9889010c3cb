package forms

// CommentInput is the raw comment form.
type CommentInput struct {
	Text string `form:"text" validate:"required"`
}

// CleanComment strips and validates a comment.
func CleanComment(v Validator, in CommentInput) Result[CommentInput] {
	in.Text = strip(in.Text)
	if errs := validate(v, &in); len(errs) > 0 {
		return Result[CommentInput]{Errors: errs}
	}
	return Result[CommentInput]{Value: in}
}
